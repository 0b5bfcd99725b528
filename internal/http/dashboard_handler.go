package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ivancliff029/engaato-online/internal/dashboard"
	"github.com/ivancliff029/engaato-online/internal/identity"
	"go.uber.org/zap"
)

type SummarySource interface {
	Summary(ctx context.Context) (dashboard.Summary, error)
}

type DashboardHandler struct {
	summaries SummarySource
	timeout   time.Duration
	log       *zap.Logger
}

func NewDashboardHandler(summaries SummarySource, timeout time.Duration, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{summaries: summaries, timeout: timeout, log: log}
}

// Summary serves the merchant summary to signed-in users only.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := identity.FromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to view the dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.summaries.Summary(ctx)
	if err != nil {
		h.log.Error("failed to build dashboard summary", zap.String("uid", user.UID), zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "dashboard_unavailable", "dashboard is unavailable")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
