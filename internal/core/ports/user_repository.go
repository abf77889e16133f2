package ports

import (
	"context"
	"time"

	"github.com/MattStellino/TrackIt/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail looks up a user by lowercase email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile sets name and email. Returns domain.ErrEmailTaken when the
	// email is already used by another account.
	UpdateProfile(ctx context.Context, id, name, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// SetResetToken stores the hash of a password-reset token with its expiry.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// FindByResetTokenHash returns the user holding an unexpired reset token
	// with the given hash, or domain.ErrInvalidToken.
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	// ResetPassword sets the new password hash and clears the reset token in
	// a single update.
	ResetPassword(ctx context.Context, id, passwordHash string) error
}
