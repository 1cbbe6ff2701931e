package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/common/cnst"
	"github.com/sanigest/sanigest/internal/common/dto"
	"github.com/sanigest/sanigest/internal/i18n"
	"go.uber.org/zap"
)

// respondError maps a sentinel error onto the shared envelope. Storage-layer
// failures are logged with context and surfaced as a generic server error so
// internals never leak to the caller.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, cnst.ErrNotFound):
		dto.Fail(c, http.StatusNotFound, i18n.T(c, "common.not_found"))
	case errors.Is(err, cnst.ErrDuplicateEmail):
		dto.Fail(c, http.StatusConflict, i18n.T(c, "auth.email_taken"))
	case errors.Is(err, cnst.ErrDuplicateSubdomain):
		dto.Fail(c, http.StatusConflict, i18n.T(c, "org.subdomain_taken"))
	default:
		logger.Error("storage operation failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		dto.Fail(c, http.StatusInternalServerError, i18n.T(c, "common.internal_error"))
	}
}

// badRequest responds with a malformed-body failure.
func badRequest(c *gin.Context) {
	dto.Fail(c, http.StatusBadRequest, i18n.T(c, "common.invalid_request"))
}

// validationFailed responds with every violated field.
func validationFailed(c *gin.Context, errs fieldErrors) {
	dto.FailValidation(c, http.StatusBadRequest, i18n.T(c, "common.validation_failed"), errs)
}
