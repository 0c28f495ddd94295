package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/essaylab-api/internal/api/shared"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/guest"
)

// GuestGate is the subset of guest.Gate the handlers need.
type GuestGate interface {
	CheckUsage(ctx context.Context, fingerprint string) (*guest.Usage, error)
	MarkUsed(ctx context.Context, fingerprint, essayID string) error
	Claim(ctx context.Context, fingerprint, essayID string) (bool, *domain.GuestTrial, error)
}

var _ GuestGate = (*guest.Gate)(nil)

// GuestHandler serves the anonymous trial endpoints.
type GuestHandler struct {
	gate   GuestGate
	logger *slog.Logger
}

// NewGuestHandler creates a GuestHandler.
func NewGuestHandler(gate GuestGate, logger *slog.Logger) *GuestHandler {
	if gate == nil {
		panic("gate cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GuestHandler{
		gate:   gate,
		logger: logger.With(slog.String("component", "guest_handler")),
	}
}

// Check handles POST /api/guest/check.
func (h *GuestHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req GuestCheckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	usage, err := h.gate.CheckUsage(r.Context(), req.Fingerprint)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check guest usage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GuestCheckResponse{
		HasUsed: usage.HasUsed,
		EssayID: usage.EssayID,
		UsedAt:  usage.UsedAt,
	})
}

// Mark handles POST /api/guest/mark.
func (h *GuestHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req GuestMarkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.gate.MarkUsed(r.Context(), req.Fingerprint, req.EssayID); err != nil {
		HandleAPIError(w, r, err, "Failed to record guest usage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// Claim handles POST /api/guest/claim. A guest that already used its trial
// gets 409 together with the recorded usage.
func (h *GuestHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req GuestMarkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claimed, trial, err := h.gate.Claim(r.Context(), req.Fingerprint, req.EssayID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to claim guest trial")
		return
	}

	resp := GuestClaimResponse{Claimed: claimed}
	if trial != nil {
		usedAt := trial.UsedAt
		resp.HasUsed = true
		resp.EssayID = trial.EssayID
		resp.UsedAt = &usedAt
	}
	status := http.StatusOK
	if !claimed {
		status = http.StatusConflict
	}
	shared.RespondWithJSON(w, r, status, resp)
}
