package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/essaylab-api/internal/api/shared"
	"github.com/phrazzld/essaylab-api/internal/platform/logger"
	"github.com/phrazzld/essaylab-api/internal/referral"
)

// ReferralHandler serves invite and promo code endpoints.
type ReferralHandler struct {
	referrals referral.Service
	logger    *slog.Logger
}

// NewReferralHandler creates a ReferralHandler.
func NewReferralHandler(referrals referral.Service, logger *slog.Logger) *ReferralHandler {
	if referrals == nil {
		panic("referrals cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferralHandler{
		referrals: referrals,
		logger:    logger.With(slog.String("component", "referral_handler")),
	}
}

// GetInviteCode handles GET /api/referrals/code.
func (h *ReferralHandler) GetInviteCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ic, err := h.referrals.EnsureInviteCode(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load invite code")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, InviteCodeResponse{Code: ic.Code, CreatedAt: ic.CreatedAt})
}

// RedeemInvite handles POST /api/referrals/redeem.
func (h *ReferralHandler) RedeemInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req RedeemCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.referrals.RedeemInvite(r.Context(), req.Code, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to redeem invite code")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// RedeemPromo handles POST /api/promos/redeem.
func (h *ReferralHandler) RedeemPromo(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req RedeemCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.referrals.RedeemPromo(r.Context(), req.Code, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to redeem promo code")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ValidateInvite handles the public POST /api/invites/validate.
func (h *ReferralHandler) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	var req ValidateInviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	check, err := h.referrals.ValidateInvite(r.Context(), req.Code)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to validate invite code")
		return
	}
	if !check.Valid {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("invite code rejected",
			slog.String("reason", check.Message))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, check)
}
