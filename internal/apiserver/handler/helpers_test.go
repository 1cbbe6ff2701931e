package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/apiserver/middleware"
	"github.com/sanigest/sanigest/internal/apiserver/notify"
	"github.com/sanigest/sanigest/internal/auth/jwt"
	"github.com/sanigest/sanigest/internal/auth/storage"
	"github.com/sanigest/sanigest/internal/common/config"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testPassword = "correct-horse-battery"
)

type testEnv struct {
	db     database.Database
	jwt    *jwt.Service
	tokens storage.Store
	cfg    *config.APIServerConfig
	r      *gin.Engine
}

// newTestEnv wires the full API surface against an on-disk sqlite store, an
// in-memory token store and a logging mailer.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.APIServerConfig{
		Server: config.ServerConfig{Port: 0, BaseURL: "http://app.test"},
		JWT: config.JWTConfig{
			SecretKey:       testSecret,
			AccessDuration:  time.Hour,
			RefreshDuration: 24 * time.Hour,
		},
	}

	db, err := database.NewDatabase(&config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := jwt.NewService(jwt.Config{SecretKey: cfg.JWT.SecretKey, Duration: cfg.JWT.AccessDuration})
	require.NoError(t, err)

	tokens := storage.NewMemoryStorage()
	mailer := notify.NewLogMailer(zap.NewNop())
	log := zap.NewNop()

	authHandler := NewAuth(db, svc, tokens, mailer, cfg, log)
	orgHandler := NewOrganization(db, log)
	deliveryHandler := NewDelivery(db, log)
	storageHandler := NewStorageTemp(db, log)
	incidentHandler := NewIncident(db, log)
	sheetHandler := NewTechSheet(db, log)

	r := gin.New()
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(svc, db, log))
	{
		api.GET("/profile", authHandler.GetProfile)
		api.PUT("/profile", authHandler.UpdateProfile)
		api.PUT("/profile/password", authHandler.ChangePassword)

		org := api.Group("/organization")
		{
			org.GET("", orgHandler.Get)
			org.PUT("", middleware.RequireAdmin(), orgHandler.Update)
			org.GET("/limits", orgHandler.GetLimits)

			users := org.Group("/users", middleware.RequireAdmin())
			{
				users.GET("", orgHandler.ListUsers)
				users.POST("", orgHandler.CreateUser)
				users.PUT("/:id", orgHandler.UpdateUser)
				users.DELETE("/:id", orgHandler.DeleteUser)
			}
		}

		records := api.Group("/records")
		{
			write := middleware.RequireWrite()

			deliveries := records.Group("/deliveries")
			{
				deliveries.GET("", deliveryHandler.List)
				deliveries.GET("/:id", deliveryHandler.Get)
				deliveries.POST("", write, deliveryHandler.Create)
				deliveries.PUT("/:id", write, deliveryHandler.Update)
				deliveries.DELETE("/:id", write, deliveryHandler.Delete)
			}
			storageRecs := records.Group("/storage")
			{
				storageRecs.GET("", storageHandler.List)
				storageRecs.GET("/:id", storageHandler.Get)
				storageRecs.POST("", write, storageHandler.Create)
				storageRecs.PUT("/:id", write, storageHandler.Update)
				storageRecs.DELETE("/:id", write, storageHandler.Delete)
			}
			incidents := records.Group("/incidents")
			{
				incidents.GET("", incidentHandler.List)
				incidents.GET("/:id", incidentHandler.Get)
				incidents.POST("", write, incidentHandler.Create)
				incidents.PUT("/:id", write, incidentHandler.Update)
				incidents.DELETE("/:id", write, incidentHandler.Delete)
				incidents.POST("/:id/actions", write, incidentHandler.AddAction)
				incidents.PUT("/:id/actions/:actionId", write, incidentHandler.UpdateAction)
				incidents.POST("/:id/resolve", write, incidentHandler.Resolve)
			}
			sheets := records.Group("/technical-sheets")
			{
				sheets.GET("", sheetHandler.List)
				sheets.GET("/:id", sheetHandler.Get)
				sheets.POST("", write, sheetHandler.Create)
				sheets.PUT("/:id", write, sheetHandler.Update)
				sheets.DELETE("/:id", write, sheetHandler.Delete)
			}
		}
	}

	return &testEnv{db: db, jwt: svc, tokens: tokens, cfg: cfg, r: r}
}

// seedTenant creates an organization with an active admin user and returns
// both together with a valid access token.
func (e *testEnv) seedTenant(t *testing.T, subdomain, email string) (*database.Organization, *database.User, string) {
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

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &database.User{
		OrgID:             org.ID,
		Email:             email,
		Name:              "Admin",
		Password:          string(hashed),
		Role:              database.RoleAdmin,
		IsActive:          true,
		PasswordChangedAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, e.db.CreateUser(ctx, user))

	token, err := e.jwt.GenerateToken(user.ID, user.OrgID, string(user.Role))
	require.NoError(t, err)
	return org, user, token
}

// seedMember adds a non-admin user to an existing organization.
func (e *testEnv) seedMember(t *testing.T, orgID uint, email string, role database.Role) (*database.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &database.User{
		OrgID:             orgID,
		Email:             email,
		Name:              "Member",
		Password:          string(hashed),
		Role:              role,
		IsActive:          true,
		PasswordChangedAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, e.db.CreateUser(context.Background(), user))

	token, err := e.jwt.GenerateToken(user.ID, user.OrgID, string(user.Role))
	require.NoError(t, err)
	return user, token
}

// do performs a JSON request against the test router.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

// envelope decodes the shared response envelope.
func envelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// dataMap returns the envelope's data as a generic map.
func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	resp := envelope(t, w)
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "response data is not an object: %s", w.Body.String())
	return m
}
