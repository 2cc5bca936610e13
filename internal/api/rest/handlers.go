package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/cache"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/collector"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/scheduler"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store/repository"
)

// responseCacheTTL bounds staleness of cached read responses between the
// daily collection runs.
const responseCacheTTL = 10 * time.Minute

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db           *store.Database
	orch         *scheduler.Orchestrator
	cache        *cache.RedisCache
	runs         *repository.RunRepository
	games        *repository.GameRepository
	teamStats    *repository.TeamStatsRepository
	availability *repository.AvailabilityRepository
	chemistry    *repository.ChemistryRepository
	defense      *repository.DefenseRepository
}

// NewHandler creates a new handler. The cache is optional; without it read
// responses are served straight from the database.
func NewHandler(db *store.Database, orch *scheduler.Orchestrator, c *cache.RedisCache) *Handler {
	return &Handler{
		db:           db,
		orch:         orch,
		cache:        c,
		runs:         repository.NewRunRepository(db),
		games:        repository.NewGameRepository(db),
		teamStats:    repository.NewTeamStatsRepository(db),
		availability: repository.NewAvailabilityRepository(db),
		chemistry:    repository.NewChemistryRepository(db),
		defense:      repository.NewDefenseRepository(db),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database unreachable", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nba-stat-collector",
		"version": "1.0.0",
	})
}

// GetStatus returns scheduler and collection status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orch.GetStatus())
}

// parseCollectRequest reads the season and per-run options for a collect
// trigger. The JSON body wins; the query string covers curl-without-a-body
// calls. A run without quick_test in either place uses the collector's
// configured default.
func parseCollectRequest(r *http.Request) (string, *collector.RunOptions) {
	var req struct {
		Season    string `json:"season"`
		QuickTest *bool  `json:"quick_test"`
	}
	// An empty body is fine; everything can come from the query string
	_ = json.NewDecoder(r.Body).Decode(&req)

	season := req.Season
	if season == "" {
		season = r.URL.Query().Get("season")
	}
	if req.QuickTest == nil {
		if q := r.URL.Query().Get("quick_test"); q != "" {
			if v, err := strconv.ParseBool(q); err == nil {
				req.QuickTest = &v
			}
		}
	}

	var opts *collector.RunOptions
	if req.QuickTest != nil {
		opts = &collector.RunOptions{QuickTest: *req.QuickTest}
	}
	return season, opts
}

// TriggerCollection starts a collection run for a season
func (h *Handler) TriggerCollection(w http.ResponseWriter, r *http.Request) {
	season, opts := parseCollectRequest(r)
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season (use body {\"season\": \"2024-25\"} or ?season=)", nil)
		return
	}

	// Collection takes minutes; run it in the background and expose the
	// result through the runs endpoints.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		if _, err := h.orch.TriggerCollection(ctx, season, opts); err != nil {
			log.Printf("[rest] Collection for %s failed: %v", season, err)
			return
		}
		h.invalidateSeasonCache(season)
	}()

	resp := map[string]interface{}{
		"message": "Collection started",
		"season":  season,
	}
	if opts != nil {
		resp["quick_test"] = opts.QuickTest
	}
	respondJSON(w, http.StatusAccepted, resp)
}

// invalidateSeasonCache drops cached read responses after a collection run
// lands fresh data.
func (h *Handler) invalidateSeasonCache(season string) {
	if h.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.cache.Delete(ctx, standingsCacheKey(season), chemistryCacheKey(season)); err != nil {
		log.Printf("[rest] Warning: failed to invalidate cached responses for %s: %v", season, err)
	}
}

func standingsCacheKey(season string) string { return "api:standings:" + season }
func chemistryCacheKey(season string) string { return "api:chemistry:" + season }

// ListRuns returns recent collection run summaries
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch runs", err)
		return
	}

	respondJSON(w, http.StatusOK, runs)
}

// GetRun returns one collection run summary
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runID"]

	run, err := h.runs.GetRun(r.Context(), runID)
	if errors.Is(err, repository.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch run", err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// GetLatestRun returns the most recent collection run
func (h *Handler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.GetLatestRun(r.Context())
	if errors.Is(err, repository.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "No runs recorded yet", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch latest run", err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// GetDatasetSummary returns per-collection record counts for a season
func (h *Handler) GetDatasetSummary(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season query parameter", nil)
		return
	}

	counts, err := h.db.CollectionCounts(r.Context(), season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count collections", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season":      season,
		"collections": counts,
	})
}

// GetStandings returns season standings
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season query parameter", nil)
		return
	}

	if h.serveCached(w, r, standingsCacheKey(season)) {
		return
	}

	standings, err := h.teamStats.GetStandings(r.Context(), season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch standings", err)
		return
	}

	h.cacheResponse(r, standingsCacheKey(season), standings)
	respondJSON(w, http.StatusOK, standings)
}

// GetChemistryRanking returns teams ranked by their latest Chemistry Index
func (h *Handler) GetChemistryRanking(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season query parameter", nil)
		return
	}

	if h.serveCached(w, r, chemistryCacheKey(season)) {
		return
	}

	ranking, err := h.chemistry.GetIndexRanking(r.Context(), season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch chemistry ranking", err)
		return
	}

	h.cacheResponse(r, chemistryCacheKey(season), ranking)
	respondJSON(w, http.StatusOK, ranking)
}

// GetTeamInjuries returns availability reports for one team's players
func (h *Handler) GetTeamInjuries(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(mux.Vars(r)["teamID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid team ID", nil)
		return
	}
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season query parameter", nil)
		return
	}

	reports, err := h.availability.GetTeamInjuryReports(r.Context(), teamID, season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch injury reports", err)
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

// GetTeamRestProfiles returns a team's per-game rest profiles for a season
func (h *Handler) GetTeamRestProfiles(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(mux.Vars(r)["teamID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid team ID", nil)
		return
	}
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season query parameter", nil)
		return
	}

	profiles, err := h.availability.GetTeamRestProfiles(r.Context(), teamID, season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch rest profiles", err)
		return
	}

	respondJSON(w, http.StatusOK, profiles)
}

// GetTeamRecentGames returns a team's most recent games, newest first
func (h *Handler) GetTeamRecentGames(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(mux.Vars(r)["teamID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid team ID", nil)
		return
	}

	limit := 10
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 82 {
		limit = l
	}

	games, err := h.games.GetTeamRecentGames(r.Context(), teamID, time.Now(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch recent games", err)
		return
	}

	respondJSON(w, http.StatusOK, games)
}

// GetClutchStats returns clutch performance for a season
func (h *Handler) GetClutchStats(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season query parameter", nil)
		return
	}
	seasonType := r.URL.Query().Get("season_type")

	stats, err := h.defense.GetClutchStats(r.Context(), season, seasonType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch clutch stats", err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetPositionalDefense returns defense-vs-position records
func (h *Handler) GetPositionalDefense(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season query parameter", nil)
		return
	}
	position := r.URL.Query().Get("position")

	records, err := h.defense.GetPositionalDefense(r.Context(), season, position)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch positional defense", err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// serveCached writes a previously cached JSON body, returning false on miss
// or when no cache is wired.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if h.cache == nil {
		return false
	}
	body, err := h.cache.Get(r.Context(), key)
	if err != nil {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
	return true
}

// cacheResponse stores a read response body for responseCacheTTL
func (h *Handler) cacheResponse(r *http.Request, key string, data interface{}) {
	if h.cache == nil {
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := h.cache.Set(r.Context(), key, body, responseCacheTTL); err != nil {
		log.Printf("[rest] Warning: failed to cache %s: %v", key, err)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
