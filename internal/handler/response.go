package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"luxbyte/internal/domain"
	"luxbyte/internal/middleware"
	"luxbyte/pkg/logger"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already registered"
	case errors.Is(err, domain.ErrUnknownActivityType):
		return http.StatusBadRequest, "UNKNOWN_ACTIVITY", "unknown activity type"
	case errors.Is(err, domain.ErrDuplicateActivity):
		return http.StatusConflict, "DUPLICATE_ACTIVITY", "a registration for this activity already exists"
	case errors.Is(err, domain.ErrNoFile):
		return http.StatusBadRequest, string(domain.ReasonNoFile), "no file provided"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity, string(domain.ReasonUnsupportedFormat), "unsupported file format"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, string(domain.ReasonFileTooLarge), "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrBadDimensions):
		return http.StatusUnprocessableEntity, string(domain.ReasonBadDimensions), "image dimensions do not satisfy the requirement"
	case errors.Is(err, domain.ErrUnreadableImage):
		return http.StatusUnprocessableEntity, string(domain.ReasonUnreadableImage), "file content could not be read or decoded"
	case errors.Is(err, domain.ErrSlotBusy):
		return http.StatusConflict, "SLOT_BUSY", "an upload for this slot is already in flight"
	case errors.Is(err, domain.ErrSlotNotEmpty):
		return http.StatusConflict, "SLOT_NOT_EMPTY", "slot already holds a document; remove it first"
	case errors.Is(err, domain.ErrChecklistIncomplete):
		return http.StatusConflict, "CHECKLIST_INCOMPLETE", "required documents are missing"
	case errors.Is(err, domain.ErrRegistrationNotDraft):
		return http.StatusConflict, "NOT_EDITABLE", "registration is no longer editable"
	case errors.Is(err, domain.ErrStorage):
		return http.StatusBadGateway, domain.FailReasonStorage, "the file could not be stored; nothing was recorded"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, domain.FailReasonPersistence, "the file was stored but could not be recorded; retry is safe"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logger.Error("internal error",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
	}
	RespondError(c, status, code, msg)
}

// extractAuthContext extracts user ID and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (userID uuid.UUID, role domain.UserRole, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, "", false
	}
	return userID, domain.UserRole(middleware.GetRole(c)), true
}
