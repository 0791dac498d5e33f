package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weatherapp/catalog"
	"weatherapp/datasource"
	"weatherapp/session"

	"golang.org/x/time/rate"
)

// Server represents the API server
type Server struct {
	catalog   *catalog.Catalog
	sessions  *SessionStore
	forecasts datasource.ForecastSource
	limiter   *rate.Limiter
	mux       *http.ServeMux
	server    *http.Server
}

// NewServer creates a new API server
func NewServer(c *catalog.Catalog, sessions *SessionStore, forecasts datasource.ForecastSource, port int) *Server {
	mux := http.NewServeMux()

	server := &Server{
		catalog:   c,
		sessions:  sessions,
		forecasts: forecasts,
		mux:       mux,
	}
	server.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Catalog
	mux.HandleFunc("/api/cities", server.handleCities)

	// Forecasts
	mux.HandleFunc("/api/forecast/city/", server.handleForecastByCity)

	// Selection sessions
	mux.HandleFunc("/api/sessions", server.handleCreateSession)
	mux.HandleFunc("/api/sessions/", server.handleSession)

	// Health check
	mux.HandleFunc("/api/health", server.handleHealthCheck)

	return server
}

// SetRateLimit limits requests across all clients; rps <= 0 disables it
func (s *Server) SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		s.limiter = nil
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// Handler returns the HTTP handler with rate limiting applied
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		s.mux.ServeHTTP(w, r)
	})
}

// Start begins the API server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleCities lists the catalog, or searches it when q is present
func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	cities := s.catalog.List()
	if query.Has("q") {
		cities = s.catalog.Find(query.Get("q"))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cities": cities,
		"count":  len(cities),
	})
}

// handleForecastByCity handles requests for a synthesized forecast by city name
func (s *Server) handleForecastByCity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	city := strings.Trim(r.URL.Path[len("/api/forecast/city/"):], "/")
	if city == "" {
		writeError(w, http.StatusBadRequest, "City not specified")
		return
	}

	forecast, err := s.forecasts.FetchForecast(r.Context(), city)
	if errors.Is(err, datasource.ErrCityNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No forecast data found for city: %s", city))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch forecast: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"city":      forecast.City,
		"provider":  s.forecasts.Name(),
		"data":      forecast,
		"timestamp": time.Now(),
	})
}

// handleCreateSession starts a new selection session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, view := s.sessions.Create()
	log.Printf("Created session %s", id)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"session": view,
	})
}

// handleSession dispatches /api/sessions/{id}[/{action}[/{arg}]]
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path[len("/api/sessions/"):], "/"), "/")
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session not specified")
		return
	}

	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.runSessionEvent(w, id, nil)

	case action == "" && r.Method == http.MethodDelete:
		if !s.sessions.Delete(id) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("No session found: %s", id))
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case r.Method != http.MethodPost:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")

	case action == "search":
		var body struct {
			Query string `json:"query"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		s.runSessionEvent(w, id, func(sess *session.Session) error {
			_, err := sess.Search(body.Query)
			return err
		})

	case action == "city":
		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		city, ok := s.catalog.Lookup(body.Name)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown city: %s", body.Name))
			return
		}
		s.runSessionEvent(w, id, func(sess *session.Session) error {
			_, err := sess.SelectCity(city)
			return err
		})

	case action == "day" && len(parts) == 3:
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid day index: %s", parts[2]))
			return
		}
		s.runSessionEvent(w, id, func(sess *session.Session) error {
			_, err := sess.SelectDayIndex(index)
			return err
		})

	case action == "back":
		s.runSessionEvent(w, id, func(sess *session.Session) error {
			return sess.Back()
		})

	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown session action: %s", action))
	}
}

func (s *Server) runSessionEvent(w http.ResponseWriter, id string, fn func(*session.Session) error) {
	view, exists, err := s.sessions.Do(id, fn)
	switch {
	case !exists:
		writeError(w, http.StatusNotFound, fmt.Sprintf("No session found: %s", id))
	case errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrDayOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":      id,
			"session": view,
		})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"cities":    len(s.catalog.List()),
		"sessions":  s.sessions.Count(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
