package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/metric"
)

// fieldPrefix marks query parameters that become record fields, e.g.
// f.form=7 for rule sets that read several metrics.
const fieldPrefix = "f."

// ClassifyHandler exposes the rule set registry.
type ClassifyHandler struct {
	deps Dependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps Dependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

type ruleSetsResponse struct {
	RuleSets []classify.ID `json:"rulesets"`
}

type classifyResponse struct {
	RuleSet string `json:"ruleset"`
	classify.Result
}

// HandleRuleSets handles GET /api/rulesets.
func (h *ClassifyHandler) HandleRuleSets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, ruleSetsResponse{RuleSets: h.deps.RuleSets()})
}

// HandleClassify handles GET /api/classify/{ruleset}?value=&text=&against=.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	subject, err := parseSubject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	id := r.PathValue("ruleset")
	res, err := h.deps.Classify(id, subject)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{RuleSet: id, Result: res})
}

func parseSubject(r *http.Request) (classify.Subject, error) {
	v := r.URL.Query()
	value, _, err := floatParam(v, "value")
	if err != nil {
		return classify.Subject{}, err
	}
	against, _, err := floatParam(v, "against")
	if err != nil {
		return classify.Subject{}, err
	}

	fields := make(map[string]float64)
	for key := range v {
		name, ok := strings.CutPrefix(key, fieldPrefix)
		if !ok || name == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Get(key)), 64)
		if err != nil {
			return classify.Subject{}, WrapKind(key, ErrBadRequest, err)
		}
		fields[name] = f
	}

	return classify.Subject{
		Value:   value,
		Text:    v.Get("text"),
		Against: against,
		Record:  metric.NewRecord("", v.Get("name"), "", v.Get("category"), fields),
	}, nil
}
