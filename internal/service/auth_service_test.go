package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
)

type stubUserRepo struct {
	user          *models.User
	lastLoginSet  bool
	passwordHash  string
	auditActions  []string
	findByIDErr   error
	updatePwdErr  error
	lastLoginTime time.Time
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if s.findByIDErr != nil {
		return nil, s.findByIDErr
	}
	if s.user == nil || s.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ string, ts time.Time) error {
	s.lastLoginSet = true
	s.lastLoginTime = ts
	return nil
}

func (s *stubUserRepo) UpdatePassword(_ context.Context, _ string, hash string, _ time.Time) error {
	if s.updatePwdErr != nil {
		return s.updatePwdErr
	}
	s.passwordHash = hash
	return nil
}

func (s *stubUserRepo) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	s.auditActions = append(s.auditActions, log.Action)
	return nil
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		Email:        "admin@kilbil.example",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret", Issuer: "kilbil"})

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@kilbil.example",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "u1", res.User.ID)
	assert.True(t, repo.lastLoginSet)
	assert.Equal(t, []string{models.AuditActionLogin}, repo.auditActions)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret"})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@kilbil.example",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	assert.False(t, repo.lastLoginSet)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &stubUserRepo{}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret"})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@kilbil.example",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := testUser(t, "secret123")
	user.Active = false
	repo := &stubUserRepo{user: user}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret"})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@kilbil.example",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "secret123")}
	issuer := NewAuthService(repo, nil, nil, AuthConfig{Secret: "secret-a"})
	verifier := NewAuthService(repo, nil, nil, AuthConfig{Secret: "secret-b"})

	res, err := issuer.Login(context.Background(), models.LoginRequest{
		Email:    "admin@kilbil.example",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestChangePassword(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "oldpass1")}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret"})

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "oldpass1",
		NewPassword: "newpass1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, repo.passwordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwordHash), []byte("newpass1")))
	assert.Contains(t, repo.auditActions, models.AuditActionPasswordChange)
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "oldpass1")}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret"})

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "nope1234",
		NewPassword: "newpass1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.passwordHash)
}
