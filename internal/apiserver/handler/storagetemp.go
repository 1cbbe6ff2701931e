package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/apiserver/middleware"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"go.uber.org/zap"
)

// StorageTemp handles storage temperature record CRUD.
type StorageTemp struct {
	db     database.Database
	logger *zap.Logger
}

// NewStorageTemp creates a new storage record handler
func NewStorageTemp(db database.Database, logger *zap.Logger) *StorageTemp {
	return &StorageTemp{
		db:     db,
		logger: logger.Named("handler.storage"),
	}
}

// List returns the organization's storage readings, newest first.
func (h *StorageTemp) List(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)

	filter := database.StorageFilter{
		Unit: c.Query("unit"),
		From: parseDateQuery(c, "from"),
		To:   parseDateQuery(c, "to"),
	}

	page := parsePagination(c)
	recs, total, err := h.db.ListStorageRecords(c.Request.Context(), authCtx.OrgID, filter, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page.Normalize()
	dto.OKPaginated(c, http.StatusOK, recs, dto.NewPagination(page.Page, page.Limit, total))
}

// Get returns one storage reading.
func (h *StorageTemp) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	rec, err := h.db.GetStorageRecord(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, rec)
}

// Create logs a storage unit temperature reading.
func (h *StorageTemp) Create(c *gin.Context) {
	var req dto.CreateStorageRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("unit", req.Unit, 2, 50)
	errs.checkNotFuture("recordedAt", req.RecordedAt)
	if req.TargetMin >= req.TargetMax {
		errs.add("targetMin", "must be below targetMax")
	}
	errs.checkOptionalLen("notes", req.Notes, 1000)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	rec := &database.StorageRecord{
		OrgID:        authCtx.OrgID,
		RegisteredBy: authCtx.UserID,
		Unit:         req.Unit,
		RecordedAt:   req.RecordedAt,
		Temperature:  req.Temperature,
		TargetMin:    req.TargetMin,
		TargetMax:    req.TargetMax,
		Notes:        req.Notes,
	}
	if err := h.db.CreateStorageRecord(c.Request.Context(), rec); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusCreated, rec)
}

// Update patches mutable fields of a storage reading.
func (h *StorageTemp) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.UpdateStorageRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	if req.Unit != nil {
		errs.checkLen("unit", *req.Unit, 2, 50)
	}
	if req.RecordedAt != nil {
		errs.checkNotFuture("recordedAt", *req.RecordedAt)
	}
	if req.Notes != nil {
		errs.checkOptionalLen("notes", *req.Notes, 1000)
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	rec, err := h.db.GetStorageRecord(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Unit != nil {
		rec.Unit = *req.Unit
	}
	if req.RecordedAt != nil {
		rec.RecordedAt = *req.RecordedAt
	}
	if req.Temperature != nil {
		rec.Temperature = *req.Temperature
	}
	if req.TargetMin != nil {
		rec.TargetMin = *req.TargetMin
	}
	if req.TargetMax != nil {
		rec.TargetMax = *req.TargetMax
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	if rec.TargetMin >= rec.TargetMax {
		var errs fieldErrors
		errs.add("targetMin", "must be below targetMax")
		validationFailed(c, errs)
		return
	}

	if err := h.db.UpdateStorageRecord(c.Request.Context(), rec); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, rec)
}

// Delete removes a storage reading.
func (h *StorageTemp) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	if err := h.db.DeleteStorageRecord(c.Request.Context(), authCtx.OrgID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OKMessage(c, http.StatusOK, i18n.T(c, "record.deleted"), nil)
}
