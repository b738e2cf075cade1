// Package mapview serves the admin map as a small local web page: the
// admin's geographical area as a circle plus one colored marker per alert.
package mapview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/roadwatch/pkg/model"
)

// Backend is the slice of the API client the map needs.
type Backend interface {
	UserLocation(ctx context.Context, userID string) (model.AreaLocation, error)
	AlertLocations(ctx context.Context) ([]model.AlertLocation, error)
}

// Marker is one alert rendered on the map.
type Marker struct {
	AlertID     int64   `json:"alert_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Color       string  `json:"color"`
}

// MapData is the payload behind /api/map-data.
type MapData struct {
	Area    model.AreaLocation `json:"area"`
	Markers []Marker           `json:"markers"`
}

// Server renders the map page and its data endpoint.
type Server struct {
	backend Backend
	userID  string
	logger  *slog.Logger
}

// New creates a map server for the given admin user.
func New(backend Backend, userID string, logger *slog.Logger) *Server {
	return &Server{
		backend: backend,
		userID:  userID,
		logger:  logger.With("component", "mapview"),
	}
}

// Handler returns the HTTP handler for the map surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/api/map-data", s.handleMapData)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.logger.Error("render map page", "error", err)
	}
}

func (s *Server) handleMapData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	area, err := s.backend.UserLocation(ctx, s.userID)
	if err != nil {
		s.logger.Error("fetch area location", "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch area location")
		return
	}

	locations, err := s.backend.AlertLocations(ctx)
	if err != nil {
		s.logger.Error("fetch alert locations", "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch alert locations")
		return
	}

	markers := make([]Marker, 0, len(locations))
	for _, loc := range locations {
		markers = append(markers, Marker{
			AlertID:     loc.AlertID,
			Latitude:    loc.Latitude,
			Longitude:   loc.Longitude,
			Description: loc.Description,
			Severity:    loc.SeverityLevel,
			Color:       model.ParseSeverity(loc.SeverityLevel).Color(),
		})
	}

	respondJSON(w, http.StatusOK, MapData{Area: area, Markers: markers})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
