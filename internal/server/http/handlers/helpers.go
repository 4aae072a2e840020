package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/server/http/dto"
	"github.com/polkiloo/procurement/internal/server/http/middleware"
)

// CurrentIdentity extracts the authenticated caller from context.
func CurrentIdentity(c *gin.Context) model.Identity {
	return middleware.Identity(c)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, domainErrors.NewValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is
// reported as a generic 500 and kept on the gin context for the access log.
func writeError(c *gin.Context, err error) {
	var (
		vErr *domainErrors.ValidationError
		bErr *domainErrors.BudgetExceededError
	)
	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrValidation.Error(), Fields: vErr.Fields})
	case errors.Is(err, domainErrors.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden), errors.Is(err, domainErrors.ErrAreaMismatch):
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &bErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:     domainErrors.ErrBudgetExceeded.Error(),
			Requested: bErr.Requested.StringFixed(2),
			Available: bErr.Available.StringFixed(2),
		})
	case errors.Is(err, domainErrors.ErrBudgetExceeded), errors.Is(err, domainErrors.ErrInvalidStatus):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
