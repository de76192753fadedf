package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"driver-log-service/internal/adapters/repositories"
	"driver-log-service/internal/api/dto"
	"driver-log-service/internal/domain"
	"driver-log-service/internal/ports"
	"driver-log-service/internal/services"
)

type TripHandler struct {
	Repo     ports.TripRepository
	Provider ports.DistanceProvider
}

// Create validates the trip form, plans the trip, and persists the result.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	startDate := time.Now().UTC()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		startDate = parsed
	}

	if req.CycleHours < 0 || req.CycleHours > 70 {
		writeError(w, r, http.StatusBadRequest, "cycle_hours must be between 0 and 70")
		return
	}
	if req.FuelIntervalMi < 0 {
		writeError(w, r, http.StatusBadRequest, "fuel_interval_mi must not be negative")
		return
	}
	if req.ServiceMinutes < 0 {
		writeError(w, r, http.StatusBadRequest, "service_minutes must not be negative")
		return
	}

	svcReq := services.CreateTripRequest{
		StartLocation:   req.StartLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleHours:      req.CycleHours,
		PropertyCarry:   req.PropertyCarry,
		FuelIntervalMi:  req.FuelIntervalMi,
		ServiceMinutes:  req.ServiceMinutes,
		StartDate:       startDate,
	}

	trip, err := services.CreateTrip(r.Context(), svcReq, h.Repo, h.Provider)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTrip) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("create trip failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, tripResponse(trip))
}

// Get returns one stored trip with its route summary.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := r.PathValue("id")

	trip, err := h.Repo.GetTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			writeError(w, r, http.StatusNotFound, "trip not found")
			return
		}
		log.Printf("get trip failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, tripResponse(trip))
}

func tripResponse(trip *domain.Trip) dto.TripResponse {
	res := dto.TripResponse{
		TripID:          trip.TripID,
		StartLocation:   trip.StartLocation,
		PickupLocation:  trip.PickupLocation,
		DropoffLocation: trip.DropoffLocation,
		StartDate:       trip.StartDate.Format("2006-01-02"),
		Estimated:       trip.Estimated,
		CreatedAt:       trip.CreatedAt,
	}
	if trip.Summary != nil {
		res.Summary = &dto.TripSummaryResponse{
			DistanceMiles: trip.Summary.DistanceMiles,
			DurationHours: trip.Summary.DurationHours,
			FuelStops:     trip.Summary.FuelStops,
			ArrivalAt:     trip.Summary.ArrivalAt,
		}
	}
	return res
}
