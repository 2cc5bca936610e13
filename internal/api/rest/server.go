package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/cache"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/scheduler"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, orch *scheduler.Orchestrator, c *cache.RedisCache) *Server {
	handler := NewHandler(db, orch, c)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Collection control
	api.HandleFunc("/status", handler.GetStatus).Methods("GET")
	api.HandleFunc("/collect", handler.TriggerCollection).Methods("POST")
	api.HandleFunc("/runs", handler.ListRuns).Methods("GET")
	api.HandleFunc("/runs/latest", handler.GetLatestRun).Methods("GET")
	api.HandleFunc("/runs/{runID}", handler.GetRun).Methods("GET")

	// Dataset reads
	api.HandleFunc("/dataset/summary", handler.GetDatasetSummary).Methods("GET")
	api.HandleFunc("/standings", handler.GetStandings).Methods("GET")
	api.HandleFunc("/chemistry", handler.GetChemistryRanking).Methods("GET")
	api.HandleFunc("/clutch", handler.GetClutchStats).Methods("GET")
	api.HandleFunc("/defense/positions", handler.GetPositionalDefense).Methods("GET")

	// Team reads
	api.HandleFunc("/teams/{teamID}/injuries", handler.GetTeamInjuries).Methods("GET")
	api.HandleFunc("/teams/{teamID}/rest", handler.GetTeamRestProfiles).Methods("GET")
	api.HandleFunc("/teams/{teamID}/games/recent", handler.GetTeamRecentGames).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
