package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/middleware"
	"expensetracker/internal/uuid"
	"expensetracker/internal/validator"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthenticated if not present.
func getUserID(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return uuid.Nil, apperrors.ErrUnauthenticated
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperrors.ErrUnauthenticated
	}
	return userID, nil
}

// parsePathID parses a UUID path parameter.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// invalidInput wraps a binding error as a 400. The raw error stays internal.
func invalidInput(err error) *apperrors.AppError {
	appErr := apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Message(err))
	appErr.Internal = err
	return appErr
}

// respondWithError writes a consistent JSON error response. Client errors use
// the AppError's status, code and message. Anything else is logged and
// answered with the generic internal error plus the request id.
func respondWithError(c *gin.Context, err error) {
	requestID := c.GetString(middleware.RequestIDKey)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.StatusCode < 500 {
		if appErr.Internal != nil {
			logger.Get().Infow("request rejected",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", requestID,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
		}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", requestID,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:      apperrors.ErrInternalServer.Code,
		Message:   apperrors.ErrInternalServer.Message,
		RequestID: requestID,
	}})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
