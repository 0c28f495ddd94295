package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/essaylab-api/internal/api"
	"github.com/phrazzld/essaylab-api/internal/domain"
	"github.com/phrazzld/essaylab-api/internal/mocks"
	"github.com/phrazzld/essaylab-api/internal/quota"
	"github.com/phrazzld/essaylab-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeStatus(dailyUsed, totalUsed int) *quota.Status {
	return &quota.Status{
		Email: "writer@gmail.com",
		Tier:  domain.TierFree,
		Daily: quota.DailyUsage{Quota: 3, Used: dailyUsed, Remaining: 3 - dailyUsed},
		Total: quota.TotalUsage{
			Quota:     quota.Count(9),
			Used:      totalUsed,
			Remaining: quota.Count(9 - totalUsed),
			BaseQuota: quota.Count(9),
		},
	}
}

func TestQuotaHandlerGetStatus(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mocks.MockQuotaService{
		GetStatusFn: func(_ context.Context, id uuid.UUID) (*quota.Status, error) {
			if id != userID {
				return nil, store.ErrAccountNotFound
			}
			return freeStatus(1, 4), nil
		},
	}
	h := api.NewQuotaHandler(svc, discardLogger)

	t.Run("ok", func(t *testing.T) {
		rec := serve(t, http.MethodGet, "/api/quota", "/api/quota", "", userID, h.GetStatus)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		decodeBody(t, rec, &body)
		assert.Equal(t, "free", body["tier"])
		daily := body["daily"].(map[string]interface{})
		assert.EqualValues(t, 2, daily["remaining"])
		total := body["total"].(map[string]interface{})
		assert.EqualValues(t, 5, total["remaining"])
		assert.EqualValues(t, 9, total["baseQuota"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := serve(t, http.MethodGet, "/api/quota", "/api/quota", "", uuid.Nil, h.GetStatus)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		rec := serve(t, http.MethodGet, "/api/quota", "/api/quota", "", uuid.New(), h.GetStatus)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Account not found", errorMessage(t, rec))
	})
}

func TestQuotaHandlerRecordSubmission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		record     func(context.Context, uuid.UUID) (*quota.Status, error)
		wantStatus int
	}{
		{
			name: "recorded",
			record: func(context.Context, uuid.UUID) (*quota.Status, error) {
				return freeStatus(2, 5), nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "exhausted",
			record: func(context.Context, uuid.UUID) (*quota.Status, error) {
				return freeStatus(3, 6), domain.ErrQuotaExceeded
			},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "store down",
			record: func(context.Context, uuid.UUID) (*quota.Status, error) {
				return nil, fmt.Errorf("failed to record submission: %w", store.ErrUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := api.NewQuotaHandler(&mocks.MockQuotaService{RecordSubmissionFn: tc.record}, discardLogger)
			rec := serve(t, http.MethodPost, "/api/quota/submissions", "/api/quota/submissions", "",
				uuid.New(), h.RecordSubmission)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestQuotaHandlerExhaustedBodyCarriesStatus(t *testing.T) {
	t.Parallel()

	h := api.NewQuotaHandler(&mocks.MockQuotaService{
		RecordSubmissionFn: func(context.Context, uuid.UUID) (*quota.Status, error) {
			return freeStatus(3, 6), domain.ErrQuotaExceeded
		},
	}, discardLogger)

	rec := serve(t, http.MethodPost, "/api/quota/submissions", "/api/quota/submissions", "",
		uuid.New(), h.RecordSubmission)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body struct {
		Error  string `json:"error"`
		Status struct {
			Daily quota.DailyUsage `json:"daily"`
		} `json:"status"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Essay quota exceeded", body.Error)
	assert.Equal(t, 0, body.Status.Daily.Remaining)
}
