package handlers

import (
	"io"
	"log"
	"net/http"

	"driver-log-service/internal/ports"
)

// maxFormPayload bounds saved draft size (drafts are small JSON objects).
const maxFormPayload = 64 << 10

type TripFormHandler struct {
	Store ports.FormStore
}

// Load returns the saved form draft for the caller's session.
func (h *TripFormHandler) Load(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	payload, found, err := h.Store.Get(r.Context(), sessionID)
	if err != nil {
		log.Printf("load trip form failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		writeError(w, r, http.StatusNotFound, "no saved form for session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Printf("write trip form failed: %v", err)
	}
}

// Save stores the request body as the session's form draft.
func (h *TripFormHandler) Save(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxFormPayload+1))
	r.Body.Close()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unreadable body")
		return
	}
	if len(payload) > maxFormPayload {
		writeError(w, r, http.StatusRequestEntityTooLarge, "form payload too large")
		return
	}

	if err := h.Store.Set(r.Context(), sessionID, payload); err != nil {
		log.Printf("save trip form failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear drops the session's form draft.
func (h *TripFormHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.Store.Clear(r.Context(), sessionID); err != nil {
		log.Printf("clear trip form failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func sessionFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		writeError(w, r, http.StatusBadRequest, "X-Session-ID header is required")
		return "", false
	}
	return sessionID, true
}
