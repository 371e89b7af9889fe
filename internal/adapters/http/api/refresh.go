package api

import (
	"net/http"

	"github.com/okian/fplboard/internal/adapters/mq/queue"
)

// RefreshHandler queues dataset refreshes.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status  string `json:"status"`
	Dataset string `json:"dataset,omitempty"`
	Queued  int    `json:"queued"`
}

// HandleRefresh handles POST /api/refresh[?dataset=name].
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		n := h.deps.RefreshAll(r.Context(), queue.ReasonRequested)
		writeJSON(w, http.StatusAccepted, refreshResponse{Status: "accepted", Queued: n})
		return
	}

	queued, err := h.deps.Refresh(r.Context(), dataset)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	resp := refreshResponse{Status: "accepted", Dataset: dataset, Queued: 1}
	if !queued {
		resp = refreshResponse{Status: "pending", Dataset: dataset}
	}
	writeJSON(w, http.StatusAccepted, resp)
}
