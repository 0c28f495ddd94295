package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/api"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/mocks"
	"github.com/phrazzld/essaylab-api/internal/referral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralHandlerGetInviteCode(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	h := api.NewReferralHandler(&mocks.MockReferralService{
		EnsureInviteCodeFn: func(_ context.Context, owner uuid.UUID) (*domain.InviteCode, error) {
			return &domain.InviteCode{Code: "K7M2QX9P", OwnerID: owner, CreatedAt: time.Now()}, nil
		},
	}, discardLogger)

	rec := serve(t, http.MethodGet, "/api/referrals/code", "/api/referrals/code", "", userID, h.GetInviteCode)
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.InviteCodeResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "K7M2QX9P", body.Code)
}

func TestReferralHandlerRedeem(t *testing.T) {
	t.Parallel()

	redeemed := func(bonus int) *referral.RedeemResult {
		return &referral.RedeemResult{Success: true, BonusCredits: bonus, Message: "ok"}
	}

	tests := []struct {
		name       string
		promo      bool
		body       string
		invite     func(context.Context, string, uuid.UUID) (*referral.RedeemResult, error)
		promoFn    func(context.Context, string, uuid.UUID) (*referral.RedeemResult, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "invite redeemed",
			body: `{"code":"k7m2qx9p"}`,
			invite: func(_ context.Context, code string, _ uuid.UUID) (*referral.RedeemResult, error) {
				return redeemed(referral.InviteeBonus), nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "own code",
			body: `{"code":"K7M2QX9P"}`,
			invite: func(context.Context, string, uuid.UUID) (*referral.RedeemResult, error) {
				return nil, domain.ErrSelfRedemption
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "You cannot redeem your own invite code",
		},
		{
			name: "invite twice",
			body: `{"code":"K7M2QX9P"}`,
			invite: func(context.Context, string, uuid.UUID) (*referral.RedeemResult, error) {
				return nil, domain.ErrAlreadyRedeemed
			},
			wantStatus: http.StatusConflict,
			wantError:  "Code already redeemed",
		},
		{
			name:       "missing code",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid code: required field",
		},
		{
			name:       "unknown field",
			body:       `{"code":"X","extra":1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:  "promo applied",
			promo: true,
			body:  `{"code":"welcome3"}`,
			promoFn: func(context.Context, string, uuid.UUID) (*referral.RedeemResult, error) {
				return redeemed(3), nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "unknown promo",
			promo: true,
			body:  `{"code":"NOPE"}`,
			promoFn: func(context.Context, string, uuid.UUID) (*referral.RedeemResult, error) {
				return nil, domain.ErrUnknownPromoCode
			},
			wantStatus: http.StatusNotFound,
			wantError:  "Promo code not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := api.NewReferralHandler(&mocks.MockReferralService{
				RedeemInviteFn: tc.invite,
				RedeemPromoFn:  tc.promoFn,
			}, discardLogger)

			path, handler := "/api/referrals/redeem", h.RedeemInvite
			if tc.promo {
				path, handler = "/api/promos/redeem", h.RedeemPromo
			}
			rec := serve(t, http.MethodPost, path, path, tc.body, uuid.New(), handler)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, errorMessage(t, rec))
				return
			}
			var body referral.RedeemResult
			decodeBody(t, rec, &body)
			assert.True(t, body.Success)
		})
	}
}

func TestReferralHandlerValidateInviteIsPublic(t *testing.T) {
	t.Parallel()

	inviter := uuid.New()
	h := api.NewReferralHandler(&mocks.MockReferralService{
		ValidateInviteFn: func(_ context.Context, code string) (*referral.InviteCheck, error) {
			if code != "K7M2QX9P" {
				return &referral.InviteCheck{Valid: false, Message: "Invite code not found"}, nil
			}
			return &referral.InviteCheck{Valid: true, Message: "Invited by w***@gmail.com", InviterID: &inviter}, nil
		},
	}, discardLogger)

	rec := serve(t, http.MethodPost, "/api/invites/validate", "/api/invites/validate",
		`{"code":"K7M2QX9P"}`, uuid.Nil, h.ValidateInvite)
	require.Equal(t, http.StatusOK, rec.Code)

	var body referral.InviteCheck
	decodeBody(t, rec, &body)
	assert.True(t, body.Valid)
	require.NotNil(t, body.InviterID)
	assert.Equal(t, inviter, *body.InviterID)

	rec = serve(t, http.MethodPost, "/api/invites/validate", "/api/invites/validate",
		`{"code":"ZZZZZZZZ"}`, uuid.Nil, h.ValidateInvite)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.False(t, body.Valid)
}
