// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/fplboard/internal/app"
	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/fixture"
	"github.com/okian/fplboard/internal/domain/swing"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	TeamRankings(ctx context.Context, view string, q service.Query) (service.Board[service.TeamRow], error)
	Players(ctx context.Context, dataset string, q service.Query) (service.Board[service.PlayerRow], error)
	Swings(ctx context.Context, q service.Query) (service.Board[swing.Record], error)
	FixtureRuns(ctx context.Context, rq service.RunQuery) (service.Board[fixture.Run], error)
	Fixtures(ctx context.Context, gameweek int) ([]fixture.Matchup, error)
	Gameweeks(ctx context.Context) ([]fixture.GameweekCount, error)
	Opportunities(ctx context.Context, oq service.OpportunityQuery) (service.Board[service.OpportunityRow], error)
	Classify(id string, s classify.Subject) (classify.Result, error)
	RuleSets() []classify.ID
	Refresh(ctx context.Context, dataset string) (bool, error)
	RefreshAll(ctx context.Context, reason string) int
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	boardHandler    *BoardHandler
	fixtureHandler  *FixtureHandler
	classifyHandler *ClassifyHandler
	refreshHandler  *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		boardHandler:    NewBoardHandler(deps),
		fixtureHandler:  NewFixtureHandler(deps),
		classifyHandler: NewClassifyHandler(deps),
		refreshHandler:  NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/rankings", MetricsMiddleware(s.boardHandler.HandleRankings, "rankings"))
	mux.HandleFunc("/api/players/{dataset}", MetricsMiddleware(s.boardHandler.HandlePlayers, "players"))
	mux.HandleFunc("/api/swings", MetricsMiddleware(s.boardHandler.HandleSwings, "swings"))
	mux.HandleFunc("/api/fdr", MetricsMiddleware(s.fixtureHandler.HandleRuns, "fdr"))
	mux.HandleFunc("/api/fixtures", MetricsMiddleware(s.fixtureHandler.HandleFixtures, "fixtures"))
	mux.HandleFunc("/api/gameweeks", MetricsMiddleware(s.fixtureHandler.HandleGameweeks, "gameweeks"))
	mux.HandleFunc("/api/opportunities", MetricsMiddleware(s.fixtureHandler.HandleOpportunities, "opportunities"))
	mux.HandleFunc("/api/rulesets", MetricsMiddleware(s.classifyHandler.HandleRuleSets, "rulesets"))
	mux.HandleFunc("/api/classify/{ruleset}", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service sentinels to status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "no_snapshot", Wrap(op, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
