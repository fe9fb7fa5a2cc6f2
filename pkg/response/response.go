package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/validator"
)

var log = logger.Nop()

// SetLogger installs the logger used for internal error reporting.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l
	}
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	s, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// GetRole returns the role name resolved by the auth middleware.
func GetRole(c *gin.Context) string {
	return c.GetString("user_role")
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Error("internal error", "path", c.FullPath(), "error", err)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// BindError writes a 400 with field level messages for a failed bind.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
