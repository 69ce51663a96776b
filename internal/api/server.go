package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
	"github.com/Abdullah20019/whale-tracker-bot/internal/version"
)

// Server exposes read-only health and stats endpoints over HTTP.
type Server struct {
	addr       string
	httpServer *http.Server
	router     *mux.Router

	roster *store.Roster
	state  *store.State

	startTime time.Time
}

func NewServer(addr string, roster *store.Roster, state *store.State) *Server {
	s := &Server{
		addr:      addr,
		roster:    roster,
		state:     state,
		startTime: time.Now(),
	}

	s.setupRouter()

	return s
}

func (s *Server) setupRouter() {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/ping", s.handlePing).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/whales", s.handleWhales).Methods("GET")

	s.router = r
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Go        string            `json:"go_version"`
	BuildInfo map[string]string `json:"build_info,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Uptime:    time.Since(s.startTime).String(),
		Version:   version.GetVersion(),
		Go:        runtime.Version(),
		BuildInfo: version.GetBuildInfo(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"pong"}`))
}

// StatsResponse is the monitoring stats payload.
type StatsResponse struct {
	Paused         bool           `json:"paused"`
	Uptime         string         `json:"uptime"`
	CycleCount     int            `json:"cycle_count"`
	AlertsSent     int            `json:"alerts_sent"`
	TokensFiltered int            `json:"tokens_filtered"`
	WhalesTotal    int            `json:"whales_total"`
	WhalesByTier   map[string]int `json:"whales_by_tier"`
	TokensTracked  int            `json:"tokens_tracked"`
	OpenPositions  int            `json:"open_positions"`
	Filters        models.Filters `json:"filters"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	byTier := make(map[string]int)
	for tier := models.TierMin; tier <= models.TierMax; tier++ {
		byTier[fmt.Sprintf("tier_%d", tier)] = len(s.roster.ListByTier(tier))
	}

	response := StatsResponse{
		Uptime:       time.Since(s.startTime).String(),
		WhalesTotal:  s.roster.Count(),
		WhalesByTier: byTier,
	}

	s.state.View(func(st *store.BotState) {
		response.Paused = st.Paused
		response.CycleCount = st.CycleCount
		response.AlertsSent = st.AlertsSent
		response.TokensFiltered = st.TokensFiltered
		response.TokensTracked = len(st.TrackedTokens)
		response.OpenPositions = len(st.Positions)
		response.Filters = st.Filters
	})

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleWhales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.roster.List())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("🌐 %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("❌ Panic in API handler: %v", rec)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🚀 Stats API server starting on %s", s.addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down stats API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("✅ Stats API server stopped")
	return nil
}

// Router returns the router for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}
