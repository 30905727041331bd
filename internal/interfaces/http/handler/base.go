package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides shared response helpers for HTTP handlers.
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware.
func (h *BaseHandler) getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// getStoreID extracts the authenticated store ID from the JWT claims.
// A request without a valid store claim never reaches handler code in
// production; the ok return guards test setups that skip the middleware.
func (h *BaseHandler) getStoreID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := middleware.GetJWTStoreID(c)
	if !ok {
		return uuid.Nil, false
	}
	storeID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return storeID, true
}

// getUserID extracts the authenticated user ID from the JWT claims.
func (h *BaseHandler) getUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := middleware.GetJWTUserID(c)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireStoreID resolves the store ID or writes a 401 response.
func (h *BaseHandler) requireStoreID(c *gin.Context) (uuid.UUID, bool) {
	storeID, ok := h.getStoreID(c)
	if !ok {
		h.Unauthorized(c, "Missing or invalid store identity")
	}
	return storeID, ok
}

// Success writes a 200 response with the given data.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 response with data and pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 response with the given data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorWithCode writes an error response with an explicit status and API code.
func (h *BaseHandler) ErrorWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, h.getRequestID(c)))
}

// BadRequest writes a 400 response.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound writes a 404 response.
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithCode(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized writes a 401 response.
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithCode(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Conflict writes a 409 response.
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.ErrorWithCode(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// UnprocessableEntity writes a 422 response.
func (h *BaseHandler) UnprocessableEntity(c *gin.Context, code, message string) {
	h.ErrorWithCode(c, http.StatusUnprocessableEntity, code, message)
}

// InternalError writes a 500 response without leaking internal details.
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.ErrorWithCode(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// BindingError writes a 400 response for a failed request binding. Validator
// errors are expanded to per-field details; other binding failures (malformed
// JSON, type mismatches) produce a generic invalid-JSON response.
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ValidationDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fieldErr.Field(),
				Message: validationMessage(fieldErr),
			})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", h.getRequestID(c), details))
		return
	}
	h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
}

// HandleDomainError maps a domain error to its HTTP representation.
// Non-domain errors are treated as internal failures.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.ErrorWithCode(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}
	h.InternalError(c)
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is below the minimum of " + fieldErr.Param()
	case "max":
		return "Value exceeds the maximum of " + fieldErr.Param()
	case "gt":
		return "Value must be greater than " + fieldErr.Param()
	case "oneof":
		return "Value must be one of: " + fieldErr.Param()
	case "uuid":
		return "Value must be a valid UUID"
	default:
		return "Invalid value"
	}
}
