package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/auth/jwt"
	"github.com/sanigest/sanigest/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type authTestEnv struct {
	db  database.Database
	jwt *jwt.Service
	r   *gin.Engine
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.DatabaseConfig{Type: "sqlite", DBName: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := jwt.NewService(jwt.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(svc, db, zap.NewNop()), func(c *gin.Context) {
		authCtx, ok := GetAuthContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": authCtx.UserID, "orgId": authCtx.OrgID, "role": authCtx.Role})
	})
	r.GET("/admin", AuthMiddleware(svc, db, zap.NewNop()), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/write", AuthMiddleware(svc, db, zap.NewNop()), RequireWrite(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return &authTestEnv{db: db, jwt: svc, r: r}
}

func (e *authTestEnv) seed(t *testing.T, subdomain string, role database.Role, active bool) (*database.Organization, *database.User) {
	t.Helper()
	ctx := context.Background()
	org := &database.Organization{
		Name:               "Org " + subdomain,
		Subdomain:          subdomain,
		Plan:               database.PlanFree,
		SubscriptionStatus: database.SubscriptionActive,
		IsActive:           true,
	}
	require.NoError(t, e.db.CreateOrganization(ctx, org))
	user := &database.User{
		OrgID:    org.ID,
		Email:    subdomain + "@example.com",
		Name:     "User",
		Password: "hashed",
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, e.db.CreateUser(ctx, user))
	return org, user
}

func (e *authTestEnv) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := newAuthTestEnv(t)
	_, user := e.seed(t, "org-a", database.RoleAdmin, true)

	tok, err := e.jwt.GenerateToken(user.ID, user.OrgID, string(user.Role))
	require.NoError(t, err)

	w := e.get("/protected", tok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingOrMalformedToken(t *testing.T) {
	e := newAuthTestEnv(t)

	w := e.get("/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	e.r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = e.get("/protected", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InactiveUser(t *testing.T) {
	e := newAuthTestEnv(t)
	_, user := e.seed(t, "org-a", database.RoleUser, false)

	tok, _ := e.jwt.GenerateToken(user.ID, user.OrgID, string(user.Role))
	w := e.get("/protected", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_OrgMismatchFailsClosed(t *testing.T) {
	e := newAuthTestEnv(t)
	orgA, _ := e.seed(t, "org-a", database.RoleAdmin, true)
	_, userB := e.seed(t, "org-b", database.RoleAdmin, true)

	// Token claiming user B belongs to org A. Response is indistinguishable
	// from a bad token.
	tok, _ := e.jwt.GenerateToken(userB.ID, orgA.ID, string(userB.Role))
	w := e.get("/protected", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_NonOperationalOrg(t *testing.T) {
	e := newAuthTestEnv(t)
	org, user := e.seed(t, "org-a", database.RoleAdmin, true)

	org.SubscriptionStatus = database.SubscriptionCanceled
	require.NoError(t, e.db.UpdateOrganization(context.Background(), org))

	tok, _ := e.jwt.GenerateToken(user.ID, user.OrgID, string(user.Role))
	w := e.get("/protected", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole(t *testing.T) {
	e := newAuthTestEnv(t)
	_, admin := e.seed(t, "org-a", database.RoleAdmin, true)
	_, reader := e.seed(t, "org-b", database.RoleReadOnly, true)

	adminTok, _ := e.jwt.GenerateToken(admin.ID, admin.OrgID, string(admin.Role))
	readerTok, _ := e.jwt.GenerateToken(reader.ID, reader.OrgID, string(reader.Role))

	assert.Equal(t, http.StatusOK, e.get("/admin", adminTok).Code)
	assert.Equal(t, http.StatusForbidden, e.get("/admin", readerTok).Code)

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set("Authorization", "Bearer "+readerTok)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	w = httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
