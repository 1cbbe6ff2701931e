package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/apiserver/middleware"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"go.uber.org/zap"
)

// TechSheet handles technical sheet CRUD. Sheets are configuration-style
// entities: unlike incidents they may be removed outright.
type TechSheet struct {
	db     database.Database
	logger *zap.Logger
}

// NewTechSheet creates a new technical sheet handler
func NewTechSheet(db database.Database, logger *zap.Logger) *TechSheet {
	return &TechSheet{
		db:     db,
		logger: logger.Named("handler.techsheet"),
	}
}

// List returns the organization's technical sheets.
func (h *TechSheet) List(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)

	filter := database.SheetFilter{Category: c.Query("category")}
	if active := c.Query("active"); active != "" {
		if v, err := strconv.ParseBool(active); err == nil {
			filter.Active = &v
		}
	}

	page := parsePagination(c)
	sheets, total, err := h.db.ListTechnicalSheets(c.Request.Context(), authCtx.OrgID, filter, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page.Normalize()
	dto.OKPaginated(c, http.StatusOK, sheets, dto.NewPagination(page.Page, page.Limit, total))
}

// Get returns one technical sheet.
func (h *TechSheet) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	sheet, err := h.db.GetTechnicalSheet(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, sheet)
}

// Create registers a technical sheet.
func (h *TechSheet) Create(c *gin.Context) {
	var req dto.CreateTechnicalSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("name", req.Name, 2, 100)
	errs.checkOptionalLen("category", req.Category, 50)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	sheet := &database.TechnicalSheet{
		OrgID:        authCtx.OrgID,
		CreatedBy:    authCtx.UserID,
		Name:         req.Name,
		Category:     req.Category,
		Ingredients:  req.Ingredients,
		Allergens:    req.Allergens,
		Elaboration:  req.Elaboration,
		Conservation: req.Conservation,
		IsActive:     true,
	}
	if err := h.db.CreateTechnicalSheet(c.Request.Context(), sheet); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusCreated, sheet)
}

// Update patches a technical sheet.
func (h *TechSheet) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.UpdateTechnicalSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	if req.Name != nil {
		errs.checkLen("name", *req.Name, 2, 100)
	}
	if req.Category != nil {
		errs.checkOptionalLen("category", *req.Category, 50)
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	sheet, err := h.db.GetTechnicalSheet(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Name != nil {
		sheet.Name = *req.Name
	}
	if req.Category != nil {
		sheet.Category = *req.Category
	}
	if req.Ingredients != nil {
		sheet.Ingredients = *req.Ingredients
	}
	if req.Allergens != nil {
		sheet.Allergens = *req.Allergens
	}
	if req.Elaboration != nil {
		sheet.Elaboration = *req.Elaboration
	}
	if req.Conservation != nil {
		sheet.Conservation = *req.Conservation
	}
	if req.IsActive != nil {
		sheet.IsActive = *req.IsActive
	}

	if err := h.db.UpdateTechnicalSheet(c.Request.Context(), sheet); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, sheet)
}

// Delete removes a technical sheet.
func (h *TechSheet) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	if err := h.db.DeleteTechnicalSheet(c.Request.Context(), authCtx.OrgID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OKMessage(c, http.StatusOK, i18n.T(c, "record.deleted"), nil)
}
