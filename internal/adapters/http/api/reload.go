package api

import (
	"context"
	"net/http"

	repository "github.com/okian/rosterlens/internal/adapters/repository"
)

// Reloader re-reads the data directory.
type Reloader interface {
	Reload(ctx context.Context) (repository.ReloadReport, error)
}

// ReloadHandler handles reload requests.
type ReloadHandler struct {
	deps Reloader
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Reloader) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /reload requests.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reload"
	report, err := h.deps.Reload(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, reloadFailure{
			errorResponse: errorResponse{Code: "reload_failed", Message: Wrap(op, err).Error()},
			Report:        report,
		})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type reloadFailure struct {
	errorResponse
	Report repository.ReloadReport `json:"report"`
}
