package api

import (
	"net/http"

	service "github.com/okian/fplboard/internal/app"
)

// FixtureHandler serves difficulty runs, gameweek fixtures and fixture
// opportunities.
type FixtureHandler struct {
	deps Dependencies
}

// NewFixtureHandler creates a new fixture handler.
func NewFixtureHandler(deps Dependencies) *FixtureHandler {
	return &FixtureHandler{deps: deps}
}

// HandleRuns handles GET /api/fdr.
func (h *FixtureHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_fdr"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v := r.URL.Query()
	q, err := parseQuery(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	from, err := intParam(v, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	horizon, err := intParam(v, "horizon")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	board, err := h.deps.FixtureRuns(r.Context(), service.RunQuery{
		Kind:    v.Get("kind"),
		From:    from,
		Horizon: horizon,
		Query:   q,
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleFixtures handles GET /api/fixtures?gw=N.
func (h *FixtureHandler) HandleFixtures(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_fixtures"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gw, err := intParam(r.URL.Query(), "gw")
	if err != nil || gw < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	matchups, err := h.deps.Fixtures(r.Context(), gw)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, matchups)
}

// HandleGameweeks handles GET /api/gameweeks.
func (h *FixtureHandler) HandleGameweeks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_gameweeks"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gws, err := h.deps.Gameweeks(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, gws)
}

// HandleOpportunities handles GET /api/opportunities?side=attack|defense&gw=N.
func (h *FixtureHandler) HandleOpportunities(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_opportunities"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v := r.URL.Query()
	q, err := parseQuery(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	gw, err := intParam(v, "gw")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	board, err := h.deps.Opportunities(r.Context(), service.OpportunityQuery{
		Side:     v.Get("side"),
		Gameweek: gw,
		Query:    q,
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
