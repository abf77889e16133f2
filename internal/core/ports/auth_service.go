package ports

import (
	"context"

	"github.com/MattStellino/TrackIt/internal/core/domain"
)

// TokenPair is an access/refresh token pair issued at login, registration,
// and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService defines account and session use-cases.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	// Refresh verifies a refresh token (signature, expiry, and type claim)
	// and issues a fresh pair. Access tokens are rejected even when
	// otherwise valid.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	// ForgotPassword generates a reset token for the account, storing only
	// its hash. It reports success uniformly whether or not the email exists.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}
