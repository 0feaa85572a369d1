package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/placasapp/placas-server/pkg/apperrors"
)

// JSON writes a success payload as-is.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error writes the uniform error envelope: {"error": message}.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// AbortError writes the error envelope and aborts the middleware chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// FromError maps an application error to its HTTP status and user-facing
// message. Unexpected errors are logged and surfaced as the fallback
// message so internals never leak to the caller.
func FromError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		if ae.Code == apperrors.CodeInternal && logger != nil {
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(fallback)
		}
		Error(c, ae.HTTPStatus(), ae.Message)
		return
	}
	if logger != nil {
		logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(fallback)
	}
	Error(c, http.StatusInternalServerError, fallback)
}
