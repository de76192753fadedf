package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"driver-log-service/internal/domain"
	"driver-log-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// fetchRoute retrieves road distance and duration for one leg using the
// OpenRouteService directions endpoint.
func (o *ORSRouteProvider) fetchRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.DistanceResult, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	bodyObj := directionsRequest{
		Coordinates: [][]float64{origin.CoordsToList(), destination.CoordsToList()},
	}
	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Routes) == 0 {
		return ports.DistanceResult{}, errors.New("directions response contained no routes")
	}

	summary := dr.Routes[0].Summary

	// ORS returns float metrics; round to nearest integer for domain consistency.
	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(summary.Distance)),
		DurationSeconds: int(math.Round(summary.Duration)),
	}, nil
}
