package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"driver-log-service/internal/adapters/repositories"
	"driver-log-service/internal/api/dto"
	"driver-log-service/internal/domain"
	"driver-log-service/internal/export"
	"driver-log-service/internal/ports"
	"driver-log-service/internal/services"
)

type LogsheetHandler struct {
	Repo        ports.TripRepository
	Compositor  *export.Compositor
	CarrierName string
	TruckNumber string
}

// List returns the normalized daily sheets of a trip as JSON.
func (h *LogsheetHandler) List(w http.ResponseWriter, r *http.Request) {
	trip, sheets, ok := h.loadSheets(w, r)
	if !ok {
		return
	}

	res := dto.ListLogsheetResponse{
		TripID:    trip.TripID,
		Estimated: trip.Estimated,
		Sheets:    make([]dto.LogsheetResponse, 0, len(sheets)),
	}
	for _, s := range sheets {
		segments := make([]dto.DutySegmentResponse, 0, len(s.Timeline.Segments))
		for _, seg := range s.Timeline.Segments {
			segments = append(segments, dto.DutySegmentResponse{
				Status: string(seg.Status),
				Start:  seg.Start,
				End:    seg.End,
			})
		}

		res.Sheets = append(res.Sheets, dto.LogsheetResponse{
			Date:          s.Date.Format("2006-01-02"),
			StartLocation: s.StartLocation,
			EndLocation:   s.EndLocation,
			DailyMiles:    s.DailyMiles,
			CumulativeMi:  s.CumulativeMi,
			Totals: dto.DutyTotalsResponse{
				OffDuty: s.Totals.OffDuty,
				Sleeper: s.Totals.Sleeper,
				Driving: s.Totals.Driving,
				OnDuty:  s.Totals.OnDuty,
			},
			Segments: segments,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// ExportPDF renders every daily sheet and streams the assembled PDF.
// Rendering is strictly sequential; a failed page aborts the download
// before any bytes are written.
func (h *LogsheetHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	trip, sheets, ok := h.loadSheets(w, r)
	if !ok {
		return
	}

	pdf, err := h.Compositor.Compose(r.Context(), "Driver Daily Logs "+trip.TripID, sheets)
	if err != nil {
		log.Printf("export pdf failed: trip=%s err=%v", trip.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	filename := export.Filename(trip.TripID, time.Now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeContent(w, r, filename, time.Time{}, bytes.NewReader(pdf))
}

// ExportRecap streams an XLSX recap with one row per trip day.
func (h *LogsheetHandler) ExportRecap(w http.ResponseWriter, r *http.Request) {
	trip, sheets, ok := h.loadSheets(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRecap(sheets, &buf); err != nil {
		log.Printf("export recap failed: trip=%s err=%v", trip.TripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="recap-`+trip.TripID+`.xlsx"`)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("write recap response failed: trip=%s err=%v", trip.TripID, err)
	}
}

func (h *LogsheetHandler) loadSheets(w http.ResponseWriter, r *http.Request) (*domain.Trip, []domain.DailySheet, bool) {
	tripID := r.PathValue("id")

	trip, sheets, err := services.LoadTripSheets(r.Context(), tripID, h.Repo, h.CarrierName, h.TruckNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			writeError(w, r, http.StatusNotFound, "trip not found")
			return nil, nil, false
		}
		log.Printf("load trip sheets failed: trip=%s err=%v", tripID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, nil, false
	}

	return trip, sheets, true
}
