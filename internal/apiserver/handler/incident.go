package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
	"github.com/sanigest/sanigest/internal/apiserver/middleware"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"go.uber.org/zap"
)

// Incident handles incident CRUD plus the corrective action sub-resource.
// The status machine is open → in_progress → resolved: adding the first
// corrective action moves an open incident to in_progress, and resolution
// only ever happens through the explicit resolve endpoint.
type Incident struct {
	db     database.Database
	logger *zap.Logger
}

// NewIncident creates a new incident handler
func NewIncident(db database.Database, logger *zap.Logger) *Incident {
	return &Incident{
		db:     db,
		logger: logger.Named("handler.incident"),
	}
}

// List returns the organization's incidents, newest first.
func (h *Incident) List(c *gin.Context) {
	authCtx, _ := middleware.GetAuthContext(c)

	filter := database.IncidentFilter{
		From: parseDateQuery(c, "from"),
		To:   parseDateQuery(c, "to"),
	}
	var errs fieldErrors
	if status := c.Query("status"); status != "" {
		if !database.IncidentStatus(status).Valid() {
			errs.add("status", "must be one of: open, in_progress, resolved")
		}
		filter.Status = database.IncidentStatus(status)
	}
	if severity := c.Query("severity"); severity != "" {
		if !database.Severity(severity).Valid() {
			errs.add("severity", "must be one of: low, medium, high, critical")
		}
		filter.Severity = database.Severity(severity)
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	page := parsePagination(c)
	incs, total, err := h.db.ListIncidents(c.Request.Context(), authCtx.OrgID, filter, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page.Normalize()
	dto.OKPaginated(c, http.StatusOK, incs, dto.NewPagination(page.Page, page.Limit, total))
}

// Get returns one incident with its corrective actions.
func (h *Incident) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	inc, err := h.db.GetIncident(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, inc)
}

// Create reports a new incident, always in the open state.
func (h *Incident) Create(c *gin.Context) {
	var req dto.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("title", req.Title, 3, 100)
	errs.checkLen("description", req.Description, 10, 1000)
	errs.checkOneOf("severity", req.Severity,
		string(database.SeverityLow), string(database.SeverityMedium),
		string(database.SeverityHigh), string(database.SeverityCritical))
	errs.checkNotFuture("detectedAt", req.DetectedAt)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	inc := &database.Incident{
		OrgID:       authCtx.OrgID,
		ReportedBy:  authCtx.UserID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    database.Severity(req.Severity),
		Status:      database.IncidentOpen,
		DetectedAt:  req.DetectedAt,
	}
	if err := h.db.CreateIncident(c.Request.Context(), inc); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusCreated, inc)
}

// Update patches mutable incident fields. Status is deliberately not
// patchable here; resolution has its own endpoint.
func (h *Incident) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	if req.Title != nil {
		errs.checkLen("title", *req.Title, 3, 100)
	}
	if req.Description != nil {
		errs.checkLen("description", *req.Description, 10, 1000)
	}
	if req.Severity != nil {
		errs.checkOneOf("severity", *req.Severity,
			string(database.SeverityLow), string(database.SeverityMedium),
			string(database.SeverityHigh), string(database.SeverityCritical))
	}
	if req.DetectedAt != nil {
		errs.checkNotFuture("detectedAt", *req.DetectedAt)
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	inc, err := h.db.GetIncident(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Title != nil {
		inc.Title = *req.Title
	}
	if req.Description != nil {
		inc.Description = *req.Description
	}
	if req.Severity != nil {
		inc.Severity = database.Severity(*req.Severity)
	}
	if req.DetectedAt != nil {
		inc.DetectedAt = *req.DetectedAt
	}

	if err := h.db.UpdateIncident(c.Request.Context(), inc); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, inc)
}

// Delete soft-deletes an incident. The row is retained for audit.
func (h *Incident) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	if err := h.db.SoftDeleteIncident(c.Request.Context(), authCtx.OrgID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OKMessage(c, http.StatusOK, i18n.T(c, "record.deleted"), nil)
}

// AddAction appends a corrective action to an incident. The first action
// moves an open incident to in_progress; it never resolves one.
func (h *Incident) AddAction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.CreateCorrectiveActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	errs.checkLen("description", req.Description, 5, 500)
	errs.checkOptionalLen("assignedTo", req.AssignedTo, 100)
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	inc, err := h.db.GetIncident(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if inc.Status == database.IncidentResolved {
		dto.Fail(c, http.StatusConflict, i18n.T(c, "incident.already_resolved"))
		return
	}

	action := &database.CorrectiveAction{
		IncidentID:  inc.ID,
		OrgID:       authCtx.OrgID,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      database.ActionPending,
	}
	if err := h.db.CreateCorrectiveAction(c.Request.Context(), action); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if inc.Status == database.IncidentOpen {
		inc.Status = database.IncidentInProgress
		if err := h.db.UpdateIncident(c.Request.Context(), inc); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	dto.OK(c, http.StatusCreated, action)
}

// UpdateAction patches a corrective action; completing one records the
// completion time but never touches the parent incident's status.
func (h *Incident) UpdateAction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}
	actionID, err := pathID(c, "actionId")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.UpdateCorrectiveActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var errs fieldErrors
	if req.Description != nil {
		errs.checkLen("description", *req.Description, 5, 500)
	}
	if req.AssignedTo != nil {
		errs.checkOptionalLen("assignedTo", *req.AssignedTo, 100)
	}
	if !errs.ok() {
		validationFailed(c, errs)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	action, err := h.db.GetCorrectiveAction(c.Request.Context(), authCtx.OrgID, id, actionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Description != nil {
		action.Description = *req.Description
	}
	if req.AssignedTo != nil {
		action.AssignedTo = *req.AssignedTo
	}
	if req.Completed != nil && *req.Completed && action.Status != database.ActionCompleted {
		now := time.Now()
		action.Status = database.ActionCompleted
		action.CompletedAt = &now
	}

	if err := h.db.UpdateCorrectiveAction(c.Request.Context(), action); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, action)
}

// Resolve closes an incident. It requires at least one corrective action
// and an explicit call; completing the last action does not resolve.
func (h *Incident) Resolve(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c)
		return
	}

	var req dto.ResolveIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	authCtx, _ := middleware.GetAuthContext(c)
	inc, err := h.db.GetIncident(c.Request.Context(), authCtx.OrgID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if inc.Status == database.IncidentResolved {
		dto.Fail(c, http.StatusConflict, i18n.T(c, "incident.already_resolved"))
		return
	}
	if len(inc.Actions) == 0 {
		dto.Fail(c, http.StatusConflict, i18n.T(c, "incident.no_actions"))
		return
	}

	now := time.Now()
	inc.Status = database.IncidentResolved
	inc.ResolvedAt = &now
	inc.ResolutionNotes = req.ResolutionNotes
	if err := h.db.UpdateIncident(c.Request.Context(), inc); err != nil {
		respondError(c, h.logger, err)
		return
	}
	dto.OK(c, http.StatusOK, inc)
}
