package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/essaylab-api/internal/api/shared"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/quota"
)

// QuotaHandler serves the caller's essay allowance.
type QuotaHandler struct {
	quota  quota.Service
	logger *slog.Logger
}

// NewQuotaHandler creates a QuotaHandler.
func NewQuotaHandler(quotaService quota.Service, logger *slog.Logger) *QuotaHandler {
	if quotaService == nil {
		panic("quotaService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotaHandler{
		quota:  quotaService,
		logger: logger.With(slog.String("component", "quota_handler")),
	}
}

// GetStatus handles GET /api/quota.
func (h *QuotaHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	status, err := h.quota.GetStatus(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load quota")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// RecordSubmission handles POST /api/quota/submissions.
func (h *QuotaHandler) RecordSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	status, err := h.quota.RecordSubmission(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) && status != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Info("submission over quota",
				slog.String("user_id", userID.String()),
				slog.Int("daily_remaining", status.Daily.Remaining))
			shared.RespondWithJSON(w, r, http.StatusTooManyRequests, QuotaExceededResponse{
				Error:   GetSafeErrorMessage(err),
				TraceID: shared.GetTraceID(r.Context()),
				Status:  status,
			})
			return
		}
		HandleAPIError(w, r, err, "Failed to record submission")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}
