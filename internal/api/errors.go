package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// respondError maps a service error to its HTTP status. Anything outside
// the apperror taxonomy is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	status, fallback := statusOf(err)
	if status == http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(status, types.ErrorResponse{Error: "internal_error"})
		return
	}

	resp := types.ErrorResponse{Error: fallback, Message: err.Error()}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code != "" {
			resp.Error = appErr.Code
		}
		resp.Message = appErr.Message
		resp.Field = appErr.Field
	}
	c.JSON(status, resp)
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondBindError reports a request body that failed to decode or bind.
func respondBindError(c *gin.Context, err error) {
	if verr := validation.FromValidator(err); verr != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:  "validation_error",
			Fields: verr.Fields(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
	})
}
