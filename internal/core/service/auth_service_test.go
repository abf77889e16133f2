package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/MattStellino/TrackIt/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = "user_" + strconv.Itoa(r.nextID)
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	for otherID, u := range r.users {
		if otherID != id && u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name, u.Email = name, email
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExp = &expiresAt
	return nil
}

func (r *stubUserRepo) FindByResetTokenHash(_ context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetTokenHash == tokenHash && u.ResetTokenExp != nil && u.ResetTokenExp.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidToken
}

func (r *stubUserRepo) ResetPassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.ResetTokenHash = ""
	u.ResetTokenExp = nil
	return nil
}

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, 24*time.Hour, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Register / Login
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, pair, err := svc.Register(context.Background(), "Alice", "Alice@Example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", pair)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass1234"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "Bobby", "BOB@example.com", "otherpass")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user record, got %d", len(repo.users))
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	var ve *domain.ValidationError
	_, _, err := svc.Register(context.Background(), "", "carol@example.com", "pass1234")
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _, err := svc.Register(context.Background(), "Carol", "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, pair, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.LastLogin == nil {
		t.Fatalf("expected last login to be set")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(pair.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims["type"] != "access" {
		t.Fatalf("expected access type claim, got %v", claims["type"])
	}
	if claims["user_id"] != user.ID {
		t.Fatalf("expected user_id claim %s, got %v", user.ID, claims["user_id"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _, _ = svc.Register(context.Background(), "Dave", "dave@example.com", "goodpass")
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, _ := svc.Register(context.Background(), "Eve", "eve@example.com", "pass1234")
	repo.users[user.ID].Active = false

	if _, _, err := svc.Login(context.Background(), "eve@example.com", "pass1234"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Refresh
// ---------------------------------------------------------------------------

func TestAuthService_Refresh_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, pair, err := svc.Register(context.Background(), "Frank", "frank@example.com", "pass1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if next.AccessToken == "" || next.RefreshToken == "" {
		t.Fatalf("expected new token pair")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, pair, err := svc.Register(context.Background(), "Grace", "grace@example.com", "pass1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// A well-signed, unexpired access token must still be rejected: its type
	// claim is wrong.
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Profile / password management
// ---------------------------------------------------------------------------

func TestAuthService_UpdateProfile_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _, _ = svc.Register(context.Background(), "Henry", "henry@example.com", "pass1234")
	user, _, _ := svc.Register(context.Background(), "Iris", "iris@example.com", "pass1234")

	if _, err := svc.UpdateProfile(context.Background(), user.ID, "Iris", "henry@example.com"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, _ := svc.Register(context.Background(), "Judy", "judy@example.com", "oldpass12")

	var ve *domain.ValidationError
	err := svc.ChangePassword(context.Background(), user.ID, "wrongpass", "newpass12")
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, _ := svc.Register(context.Background(), "Kate", "kate@example.com", "oldpass12")
	if err := svc.ChangePassword(context.Background(), user.ID, "oldpass12", "newpass12"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "kate@example.com", "newpass12"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Password reset flow
// ---------------------------------------------------------------------------

func TestAuthService_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	var sinkCalls int
	svc.SetResetTokenSink(func(email, rawToken string) { sinkCalls++ })

	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected uniform success, got %v", err)
	}
	if sinkCalls != 0 {
		t.Fatalf("no token should be issued for an unknown email")
	}
	for _, u := range repo.users {
		if u.ResetTokenHash != "" {
			t.Fatalf("no reset token should be stored")
		}
	}
}

func TestAuthService_ResetPassword_Flow(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, _ := svc.Register(context.Background(), "Liam", "liam@example.com", "oldpass12")

	var raw string
	svc.SetResetTokenSink(func(email, rawToken string) { raw = rawToken })

	if err := svc.ForgotPassword(context.Background(), "liam@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if raw == "" {
		t.Fatalf("expected raw token through sink")
	}
	if repo.users[user.ID].ResetTokenHash == raw {
		t.Fatalf("raw token must not be stored")
	}

	if err := svc.ResetPassword(context.Background(), raw, "newpass12"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}
	if repo.users[user.ID].ResetTokenHash != "" {
		t.Fatalf("reset token should be cleared after use")
	}

	if _, _, err := svc.Login(context.Background(), "liam@example.com", "newpass12"); err != nil {
		t.Fatalf("login with reset password failed: %v", err)
	}
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _, _ := svc.Register(context.Background(), "Mia", "mia@example.com", "oldpass12")

	var raw string
	svc.SetResetTokenSink(func(email, rawToken string) { raw = rawToken })
	if err := svc.ForgotPassword(context.Background(), "mia@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}

	expired := time.Now().UTC().Add(-time.Minute)
	repo.users[user.ID].ResetTokenExp = &expired

	if err := svc.ResetPassword(context.Background(), raw, "newpass12"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
