package ports

import "context"

// FormStore holds in-progress trip form state across navigation for one
// session. It replaces a process-wide singleton: the caller owns the store's
// lifecycle and passes it explicitly.
type FormStore interface {
	// Retrieve the saved form payload for a session, or ok=false when none.
	Get(ctx context.Context, sessionID string) (payload []byte, ok bool, err error)
	// Save the form payload for a session.
	Set(ctx context.Context, sessionID string, payload []byte) error
	// Drop the saved payload for a session.
	Clear(ctx context.Context, sessionID string) error
}
