package auth

import (
	"context"

	"github.com/google/uuid"
)

// MockJWTService is a function-field JWTService for handler tests.
type MockJWTService struct {
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)
	GenerateTokenFunc func(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// Claims is returned by ValidateToken when no func is set.
	Claims *Claims
	// ValidationError is returned by ValidateToken when no func is set.
	ValidationError error
}

var _ JWTService = (*MockJWTService)(nil)

// NewMockJWTService returns a mock that accepts any token as userID.
func NewMockJWTService(userID uuid.UUID) *MockJWTService {
	return &MockJWTService{Claims: &Claims{UserID: userID}}
}

// ValidateToken implements JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}

// GenerateToken implements JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userID, email)
	}
	return "mock-jwt-token", nil
}
