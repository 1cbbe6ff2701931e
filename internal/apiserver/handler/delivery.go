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

// Delivery handles delivery record CRUD. The organization filter comes from
// the authenticated context on every call, never from the payload.
type Delivery struct {
	db     database.Database
	logger *zap.Logger
}

// NewDelivery creates a new delivery record handler
func NewDelivery(db database.Database, logger *zap.Logger) *Delivery {
	return &Delivery{
		db:     db,
		logger: logger.Named("handler.delivery"),
	}
}

func validateDeliveryStatus(errs *fieldErrors, status string) {
	errs.checkOneOf("status", status,
		string(database.DeliveryAccepted), string(database.DeliveryRejected))
}

// List returns the organization's delivery records, newest first.
func (h *Delivery) List(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)

	filter := database.DeliveryFilter{
		Supplier: c.Query("supplier"),
		From:     parseDateQuery(c, "from"),
		To:       parseDateQuery(c, "to"),
	}
	if status := c.Query("status"); status != "" {
		var errs fieldErrors
		validateDeliveryStatus(&errs, status)
		if !errs.ok() {
			validationFailed(c, errs)
			return
		}
		filter.Status = database.DeliveryStatus(status)
	}

	page := parsePagination(c)
	recs, total, err := h.db.ListDeliveries(c.Request.Context(), authCtx.OrgID, filter, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page.Normalize()
	dto.OKPaginated(c, http.StatusOK, recs, dto.NewPagination(page.Page, page.Limit, total))
}

// Get returns one delivery record.
func (h *Delivery) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	rec, err := h.db.GetDelivery(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, rec)
}

// Create logs a delivery control.
func (h *Delivery) Create(c *gin.Context) {
	var req dto.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("supplier", req.Supplier, 3, 100)
	errs.checkLen("product", req.Product, 2, 100)
	errs.checkNotFuture("deliveryDate", req.DeliveryDate)
	validateDeliveryStatus(&errs, req.Status)
	errs.checkOptionalLen("notes", req.Notes, 1000)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	rec := &database.DeliveryRecord{
		OrgID:        authCtx.OrgID,
		RegisteredBy: authCtx.UserID,
		Supplier:     req.Supplier,
		Product:      req.Product,
		DeliveryDate: req.DeliveryDate,
		Temperature:  req.Temperature,
		PackagingOK:  req.PackagingOK,
		LabelingOK:   req.LabelingOK,
		Status:       database.DeliveryStatus(req.Status),
		Notes:        req.Notes,
	}
	if err := h.db.CreateDelivery(c.Request.Context(), rec); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusCreated, rec)
}

// Update patches mutable fields of a delivery record.
func (h *Delivery) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	if req.Supplier != nil {
		errs.checkLen("supplier", *req.Supplier, 3, 100)
	}
	if req.Product != nil {
		errs.checkLen("product", *req.Product, 2, 100)
	}
	if req.DeliveryDate != nil {
		errs.checkNotFuture("deliveryDate", *req.DeliveryDate)
	}
	if req.Status != nil {
		validateDeliveryStatus(&errs, *req.Status)
	}
	if req.Notes != nil {
		errs.checkOptionalLen("notes", *req.Notes, 1000)
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	rec, err := h.db.GetDelivery(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Supplier != nil {
		rec.Supplier = *req.Supplier
	}
	if req.Product != nil {
		rec.Product = *req.Product
	}
	if req.DeliveryDate != nil {
		rec.DeliveryDate = *req.DeliveryDate
	}
	if req.Temperature != nil {
		rec.Temperature = *req.Temperature
	}
	if req.PackagingOK != nil {
		rec.PackagingOK = *req.PackagingOK
	}
	if req.LabelingOK != nil {
		rec.LabelingOK = *req.LabelingOK
	}
	if req.Status != nil {
		rec.Status = database.DeliveryStatus(*req.Status)
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}

	if err := h.db.UpdateDelivery(c.Request.Context(), rec); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, rec)
}

// Delete removes a delivery record. The caller layer is expected to confirm:
// delivery logs have regulatory value.
func (h *Delivery) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	if err := h.db.DeleteDelivery(c.Request.Context(), authCtx.OrgID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OKMessage(c, http.StatusOK, i18n.T(c, "record.deleted"), nil)
}
