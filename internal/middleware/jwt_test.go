package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	"github.com/kilbil-1980/kilbil-school-api/internal/service"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func (s *stubUserRepo) UpdatePassword(context.Context, string, string, time.Time) error { return nil }

func (s *stubUserRepo) CreateAuditLog(context.Context, *models.AuditLog) error { return nil }

func testToken(t *testing.T, svc *service.AuthService) string {
	t.Helper()
	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@kilbil.example",
		Password: "secret123",
	})
	require.NoError(t, err)
	return res.AccessToken
}

func newGuardedRouter(svc *service.AuthService, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(svc), RequireRoles(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func newAuthService(t *testing.T, role models.UserRole) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubUserRepo{user: &models.User{
		ID:           "u1",
		Email:        "admin@kilbil.example",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}}
	return service.NewAuthService(repo, nil, nil, service.AuthConfig{Secret: "test-secret"})
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	router := newGuardedRouter(newAuthService(t, models.RoleAdmin), models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	router := newGuardedRouter(newAuthService(t, models.RoleAdmin), models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTAllowsValidToken(t *testing.T) {
	svc := newAuthService(t, models.RoleAdmin)
	router := newGuardedRouter(svc, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, svc))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRequireRolesForbidsWrongRole(t *testing.T) {
	svc := newAuthService(t, models.RoleAdmin)
	router := newGuardedRouter(svc, models.RoleSuperAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, svc))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	svc := newAuthService(t, models.RoleAdmin)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", OptionalJWT(svc), func(c *gin.Context) {
		_, authed := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"authed":false`)

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, svc))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"authed":true`)
}
