package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/apiserver/middleware"
	"github.com/sanigest/sanigest/internal/common/cnst"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Organization handles tenant settings and user management. Every operation
// is scoped to the caller's own organization; there is no way to address
// another tenant.
type Organization struct {
	db     database.Database
	logger *zap.Logger
}

// NewOrganization creates a new organization handler
func NewOrganization(db database.Database, logger *zap.Logger) *Organization {
	return &Organization{
		db:     db,
		logger: logger.Named("handler.organization"),
	}
}

// Get returns the caller's organization.
func (h *Organization) Get(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)
	org, err := h.db.GetOrganizationByID(c.Request.Context(), authCtx.OrgID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, orgInfo(org))
}

// Update mutates tenant settings. The subdomain, plan and active flag are
// not client-mutable through this endpoint.
func (h *Organization) Update(c *gin.Context) {
	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	if req.Name != nil {
		errs.checkLen("name", *req.Name, 2, 100)
	}
	if req.EstablishmentName != nil {
		errs.checkOptionalLen("establishmentName", *req.EstablishmentName, 100)
	}
	if req.EstablishmentAddress != nil {
		errs.checkOptionalLen("establishmentAddress", *req.EstablishmentAddress, 200)
	}
	if req.EstablishmentPhone != nil {
		errs.checkOptionalLen("establishmentPhone", *req.EstablishmentPhone, 30)
	}
	if req.LogoURL != nil {
		errs.checkOptionalLen("logoUrl", *req.LogoURL, 300)
	}
	if req.PrimaryColor != nil {
		errs.checkOptionalLen("primaryColor", *req.PrimaryColor, 20)
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	org, err := h.db.GetOrganizationByID(c.Request.Context(), authCtx.OrgID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Name != nil {
		org.Name = strings.TrimSpace(*req.Name)
	}
	if req.EstablishmentName != nil {
		org.EstablishmentName = *req.EstablishmentName
	}
	if req.EstablishmentAddress != nil {
		org.EstablishmentAddress = *req.EstablishmentAddress
	}
	if req.EstablishmentPhone != nil {
		org.EstablishmentPhone = *req.EstablishmentPhone
	}
	if req.LogoURL != nil {
		org.LogoURL = *req.LogoURL
	}
	if req.PrimaryColor != nil {
		org.PrimaryColor = *req.PrimaryColor
	}

	if err := h.db.UpdateOrganization(c.Request.Context(), org); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, orgInfo(org))
}

// GetLimits reports the plan quota table entry and current usage.
func (h *Organization) GetLimits(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)
	org, err := h.db.GetOrganizationByID(c.Request.Context(), authCtx.OrgID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	count, err := h.db.CountUsersByOrg(c.Request.Context(), authCtx.OrgID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	limits := org.Limits()
	dto.OK(c, http.StatusOK, dto.LimitsInfo{
		Plan:           string(org.Plan),
		MaxUsers:       limits.MaxUsers,
		CurrentUsers:   count,
		StorageLimitMB: limits.StorageLimitMB,
		APICallsLimit:  limits.APICallsLimit,
	})
}

// ListUsers lists the organization's users.
func (h *Organization) ListUsers(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)
	users, err := h.db.ListUsersByOrg(c.Request.Context(), authCtx.OrgID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, userInfo(u))
	}
	dto.OK(c, http.StatusOK, infos)
}

// CreateUser invites a user into the caller's organization, bounded by the
// plan's user quota.
func (h *Organization) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("name", req.Name, 2, 100)
	errs.checkEmail("email", req.Email)
	errs.checkPassword("password", req.Password)
	errs.checkOneOf("role", req.Role,
		string(database.RoleAdmin), string(database.RoleUser), string(database.RoleReadOnly))
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	org, err := h.db.GetOrganizationByID(c.Request.Context(), authCtx.OrgID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	count, err := h.db.CountUsersByOrg(c.Request.Context(), authCtx.OrgID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if count >= int64(org.Limits().MaxUsers) {
		dto.Fail(c, http.StatusForbidden, i18n.T(c, "org.user_limit_reached"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.db.GetUserByEmail(c.Request.Context(), email); err == nil {
		dto.Fail(c, http.StatusConflict, i18n.T(c, "auth.email_taken"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	user := &database.User{
		OrgID:             authCtx.OrgID,
		Email:             email,
		Name:              strings.TrimSpace(req.Name),
		Password:          string(hashed),
		Role:              database.Role(req.Role),
		IsActive:          true,
		PasswordChangedAt: time.Now(),
	}
	if err := h.db.CreateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	dto.OK(c, http.StatusCreated, userInfo(user))
}

// UpdateUser mutates a managed user of the caller's organization.
func (h *Organization) UpdateUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	if req.Name != nil {
		errs.checkLen("name", *req.Name, 2, 100)
	}
	if req.Role != nil {
		errs.checkOneOf("role", *req.Role,
			string(database.RoleAdmin), string(database.RoleUser), string(database.RoleReadOnly))
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	user, err := h.db.GetUserByID(c.Request.Context(), id)
	if err != nil || user.OrgID != authCtx.OrgID {
		// Users of other tenants are indistinguishable from absent ones.
		respondError(c, h.logger, cnst.ErrNotFound)
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		user.Role = database.Role(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, userInfo(user))
}

// DeleteUser deactivates a user. Rows are never removed so historical
// attribution on records stays resolvable.
func (h *Organization) DeleteUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	if id == authCtx.UserID {
		dto.Fail(c, http.StatusBadRequest, i18n.T(c, "org.cannot_deactivate_self"))
		return
	}

	user, err := h.db.GetUserByID(c.Request.Context(), id)
	if err != nil || user.OrgID != authCtx.OrgID {
		respondError(c, h.logger, cnst.ErrNotFound)
		return
	}

	user.IsActive = false
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OKMessage(c, http.StatusOK, i18n.T(c, "org.user_deactivated"), nil)
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(v), err
}

// orgInfo maps an organization row onto its client representation.
func orgInfo(o *database.Organization) dto.OrganizationInfo {
	return dto.OrganizationInfo{
		ID:                    o.ID,
		Name:                  o.Name,
		Subdomain:             o.Subdomain,
		EstablishmentName:     o.EstablishmentName,
		EstablishmentAddress:  o.EstablishmentAddress,
		EstablishmentPhone:    o.EstablishmentPhone,
		LogoURL:               o.LogoURL,
		PrimaryColor:          o.PrimaryColor,
		Plan:                  string(o.Plan),
		SubscriptionStatus:    string(o.SubscriptionStatus),
		SubscriptionExpiresAt: o.SubscriptionExpiresAt,
		IsActive:              o.IsActive,
		CreatedAt:             o.CreatedAt,
	}
}
