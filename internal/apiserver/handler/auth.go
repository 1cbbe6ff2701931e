package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/apiserver/middleware"
	"github.com/sanigest/sanigest/internal/apiserver/notify"
	"github.com/sanigest/sanigest/internal/auth/jwt"
	"github.com/sanigest/sanigest/internal/auth/storage"
	"github.com/sanigest/sanigest/internal/common/cnst"
	"github.com/sanigest/sanigest/internal/common/config"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"github.com/sanigest/sanigest/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 30 * time.Minute
	verifyTokenTTL  = 24 * time.Hour
	resetTokenTTL   = time.Hour
)

// Auth handles registration, login and the token lifecycle.
type Auth struct {
	db         database.Database
	jwtService *jwt.Service
	tokens     storage.Store
	mailer     notify.Mailer
	cfg        *config.APIServerConfig
	logger     *zap.Logger
}

// NewAuth creates a new authentication handler
func NewAuth(db database.Database, jwtService *jwt.Service, tokens storage.Store, mailer notify.Mailer, cfg *config.APIServerConfig, logger *zap.Logger) *Auth {
	return &Auth{
		db:         db,
		jwtService: jwtService,
		tokens:     tokens,
		mailer:     mailer,
		cfg:        cfg,
		logger:     logger.Named("handler.auth"),
	}
}

// Register creates an organization together with its first admin user.
func (h *Auth) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("organizationName", req.OrganizationName, 2, 100)
	errs.checkLen("name", req.Name, 2, 100)
	errs.checkEmail("email", req.Email)
	errs.checkPassword("password", req.Password)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.db.GetUserByEmail(c.Request.Context(), email); err == nil {
		dto.Fail(c, http.StatusConflict, i18n.T(c, "auth.email_taken"))
		return
	}

	subdomain, err := h.assignSubdomain(c.Request.Context(), req.Subdomain, req.OrganizationName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	verifyToken, err := utils.NewSecureToken()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	org := &database.Organization{
		Name:               strings.TrimSpace(req.OrganizationName),
		Subdomain:          subdomain,
		Plan:               database.PlanFree,
		SubscriptionStatus: database.SubscriptionActive,
		IsActive:           true,
	}
	verifyExpiry := time.Now().Add(verifyTokenTTL)
	user := &database.User{
		Email:             email,
		Name:              strings.TrimSpace(req.Name),
		Password:          string(hashed),
		Role:              database.RoleAdmin,
		IsActive:          true,
		VerifyToken:       verifyToken,
		VerifyExpiresAt:   &verifyExpiry,
		PasswordChangedAt: time.Now(),
	}

	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.CreateOrganization(ctx, org); err != nil {
			return err
		}
		user.OrgID = org.ID
		return h.db.CreateUser(ctx, user)
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", h.cfg.Server.BaseURL, verifyToken)
	if err := h.mailer.SendVerification(c.Request.Context(), user.Email, user.Name, link); err != nil {
		// Registration stands; the token can be re-sent later.
		h.logger.Error("failed to send verification mail", zap.Error(err))
	}

	dto.OKMessage(c, http.StatusCreated, i18n.T(c, "auth.registered"), gin.H{
		"organization": orgInfo(org),
		"user":         userInfo(user),
	})
}

// assignSubdomain derives and de-duplicates the tenant slug.
func (h *Auth) assignSubdomain(ctx context.Context, requested, orgName string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(requested))
	if slug == "" {
		slug = utils.Slugify(orgName)
	}

	exists, err := h.db.SubdomainExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if !exists {
		return slug, nil
	}

	slug = utils.SlugWithSuffix(slug)
	exists, err = h.db.SubdomainExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if exists {
		return "", cnst.ErrDuplicateSubdomain
	}
	return slug, nil
}

// Login verifies credentials, enforces the account lockout policy and issues
// a token pair.
func (h *Auth) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.db.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		dto.Fail(c, http.StatusUnauthorized, i18n.T(c, "auth.invalid_credentials"))
		return
	}

	// The locked message is uniform with the rate-limit one so it cannot
	// be used to enumerate accounts.
	if user.Locked() {
		dto.Fail(c, http.StatusUnauthorized, i18n.T(c, "auth.too_many_attempts"))
		return
	}
	if !user.IsActive {
		dto.Fail(c, http.StatusUnauthorized, i18n.T(c, "auth.invalid_credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		user.FailedLogins++
		if user.FailedLogins >= maxFailedLogins {
			until := time.Now().Add(lockoutDuration)
			user.LockedUntil = &until
			user.FailedLogins = 0
		}
		if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
			h.logger.Error("failed to persist lockout state", zap.Error(err))
		}
		dto.Fail(c, http.StatusUnauthorized, i18n.T(c, "auth.invalid_credentials"))
		return
	}

	now := time.Now()
	user.FailedLogins = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	pair, err := h.issueTokens(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	dto.OK(c, http.StatusOK, dto.LoginResponse{TokenPair: *pair, User: userInfo(user)})
}

// issueTokens signs an access token and stores a fresh refresh token.
func (h *Auth) issueTokens(ctx context.Context, user *database.User) (*dto.TokenPair, error) {
	access, err := h.jwtService.GenerateToken(user.ID, user.OrgID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refresh, err := utils.NewSecureToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rt := &storage.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		OrgID:     user.OrgID,
		IssuedAt:  now,
		ExpiresAt: now.Add(h.cfg.JWT.RefreshDuration),
	}
	if err := h.tokens.Save(ctx, rt); err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(h.jwtService.Duration().Seconds()),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. Tokens issued
// before the user's last password change are rejected and discarded.
func (h *Auth) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	rt, err := h.tokens.Get(c.Request.Context(), req.RefreshToken)
	if err != nil {
		dto.Fail(c, http.StatusUnauthorized, i18n.T(c, "auth.invalid_token"))
		return
	}

	user, err := h.db.GetUserByID(c.Request.Context(), rt.UserID)
	if err != nil || !user.IsActive {
		dto.Fail(c, http.StatusUnauthorized, i18n.T(c, "auth.invalid_token"))
		return
	}
	if user.PasswordChangedAt.After(rt.IssuedAt) {
		_ = h.tokens.Delete(c.Request.Context(), rt.Token)
		dto.Fail(c, http.StatusUnauthorized, i18n.T(c, "auth.invalid_token"))
		return
	}

	access, err := h.jwtService.GenerateToken(user.ID, user.OrgID, string(user.Role))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	dto.OK(c, http.StatusOK, dto.TokenPair{
		AccessToken:  access,
		RefreshToken: rt.Token,
		ExpiresIn:    int64(h.jwtService.Duration().Seconds()),
	})
}

// Logout invalidates a refresh token.
func (h *Auth) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if req.RefreshToken != "" {
		if err := h.tokens.Delete(c.Request.Context(), req.RefreshToken); err != nil {
			h.logger.Warn("failed to delete refresh token", zap.Error(err))
		}
	}
	dto.OKMessage(c, http.StatusOK, i18n.T(c, "auth.logged_out"), nil)
}

// VerifyEmail flips the verified flag when the exact token is presented
// before expiry. The token is single use.
func (h *Auth) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		badRequest(c)
		return
	}

	user, err := h.db.GetUserByVerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		dto.Fail(c, http.StatusBadRequest, i18n.T(c, "auth.invalid_verify_token"))
		return
	}
	if user.VerifyExpiresAt == nil || time.Now().After(*user.VerifyExpiresAt) {
		dto.Fail(c, http.StatusBadRequest, i18n.T(c, "auth.invalid_verify_token"))
		return
	}

	user.EmailVerified = true
	user.VerifyToken = ""
	user.VerifyExpiresAt = nil
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	dto.OKMessage(c, http.StatusOK, i18n.T(c, "auth.email_verified"), nil)
}

// ForgotPassword issues a reset token. The response is identical whether or
// not the email exists.
func (h *Auth) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.db.GetUserByEmail(c.Request.Context(), email)
	if err == nil && user.IsActive {
		token, terr := utils.NewSecureToken()
		if terr == nil {
			expiry := time.Now().Add(resetTokenTTL)
			user.ResetToken = token
			user.ResetExpiresAt = &expiry
			if uerr := h.db.UpdateUser(c.Request.Context(), user); uerr == nil {
				link := fmt.Sprintf("%s/reset-password?token=%s", h.cfg.Server.BaseURL, token)
				if merr := h.mailer.SendPasswordReset(c.Request.Context(), user.Email, user.Name, link); merr != nil {
					h.logger.Error("failed to send reset mail", zap.Error(merr))
				}
			}
		}
	}

	dto.OKMessage(c, http.StatusOK, i18n.T(c, "auth.reset_sent"), nil)
}

// ResetPassword completes a reset. The token is single use and the password
// change invalidates every previously issued refresh token.
func (h *Auth) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkPassword("newPassword", req.NewPassword)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	user, err := h.db.GetUserByResetToken(c.Request.Context(), req.Token)
	if err != nil {
		dto.Fail(c, http.StatusBadRequest, i18n.T(c, "auth.invalid_reset_token"))
		return
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		dto.Fail(c, http.StatusBadRequest, i18n.T(c, "auth.invalid_reset_token"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user.Password = string(hashed)
	user.PasswordChangedAt = time.Now()
	user.ResetToken = ""
	user.ResetExpiresAt = nil
	user.FailedLogins = 0
	user.LockedUntil = nil
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	dto.OKMessage(c, http.StatusOK, i18n.T(c, "auth.password_reset"), nil)
}

// GetProfile returns the caller's own user record.
func (h *Auth) GetProfile(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)
	user, err := h.db.GetUserByID(c.Request.Context(), authCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, userInfo(user))
}

// UpdateProfile mutates the caller's own profile. Available to every role.
func (h *Auth) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("name", req.Name, 2, 100)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	user, err := h.db.GetUserByID(c.Request.Context(), authCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user.Name = strings.TrimSpace(req.Name)
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	dto.OK(c, http.StatusOK, userInfo(user))
}

// ChangePassword changes the caller's own password after verifying the old
// one. Refresh tokens issued before the change stop working.
func (h *Auth) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkPassword("newPassword", req.NewPassword)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	user, err := h.db.GetUserByID(c.Request.Context(), authCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		dto.Fail(c, http.StatusForbidden, i18n.T(c, "auth.invalid_old_password"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user.Password = string(hashed)
	user.PasswordChangedAt = time.Now()
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	dto.OKMessage(c, http.StatusOK, i18n.T(c, "auth.password_changed"), nil)
}

// userInfo maps a user row onto its client representation. The legacy
// isAdmin boolean is derived from the role here and nowhere else.
func userInfo(u *database.User) dto.UserInfo {
	return dto.UserInfo{
		ID:             u.ID,
		OrganizationID: u.OrgID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		IsAdmin:        u.Role == database.RoleAdmin,
		IsActive:       u.IsActive,
		EmailVerified:  u.EmailVerified,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
	}
}
