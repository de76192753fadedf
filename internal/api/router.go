package api

import (
	"net/http"

	"driver-log-service/internal/api/handlers"
	"driver-log-service/internal/export"
	"driver-log-service/internal/ports"
)

// RouterConfig carries the wired dependencies and trip-level constants the
// handlers need.
type RouterConfig struct {
	Repo        ports.TripRepository
	Provider    ports.DistanceProvider
	Compositor  *export.Compositor
	FormStore   ports.FormStore
	CarrierName string
	TruckNumber string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Repo: cfg.Repo, Provider: cfg.Provider}
	sheetHandler := &handlers.LogsheetHandler{
		Repo:        cfg.Repo,
		Compositor:  cfg.Compositor,
		CarrierName: cfg.CarrierName,
		TruckNumber: cfg.TruckNumber,
	}
	formHandler := &handlers.TripFormHandler{Store: cfg.FormStore}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /trips", tripHandler.Create)
	mux.HandleFunc("GET /trips/{id}", tripHandler.Get)
	mux.HandleFunc("GET /trips/{id}/logsheets", sheetHandler.List)
	mux.HandleFunc("GET /trips/{id}/logsheets.pdf", sheetHandler.ExportPDF)
	mux.HandleFunc("GET /trips/{id}/recap.xlsx", sheetHandler.ExportRecap)
	mux.HandleFunc("GET /tripform", formHandler.Load)
	mux.HandleFunc("PUT /tripform", formHandler.Save)
	mux.HandleFunc("DELETE /tripform", formHandler.Clear)

	return loggingMiddleware(mux)
}
