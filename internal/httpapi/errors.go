package httpapi

import (
	"errors"
	"net/http"

	"taskboard/internal/tasks"
	"taskboard/internal/users"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgSomethingWrong   = "Something went wrong"
	msgInvalidLogin     = "Invalid email or password"
	msgEmailTaken       = "Email already exists"
	msgTaskNotAllowed   = "Task not found or not allowed"
	msgTaskNotFound     = "Task not found"
	msgCredsRequired    = "Email and password are required"
	msgNoRefreshToken   = "No refresh token found"
	msgInvalidRefresh   = "Invalid refresh token"
	msgUserNotFound     = "User not found"
	msgLogoutSuccessful = "Logged out successfully"
)

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func failField(c *gin.Context, status int, message, field string) {
	body := gin.H{"success": false, "message": message}
	if field != "" {
		body["field"] = field
	}
	c.AbortWithStatusJSON(status, body)
}

// internalError logs err on the request logger and answers 500 without details.
func internalError(c *gin.Context, msg string, err error) {
	logger.FromGin(c).Error(msg, "err", err)
	fail(c, http.StatusInternalServerError, msgSomethingWrong)
}

// asValidation extracts field and message from either package's validation error.
func asValidation(err error) (field, message string, ok bool) {
	var uve *users.ValidationError
	if errors.As(err, &uve) {
		return uve.Field, uve.Message, true
	}
	var tve *tasks.ValidationError
	if errors.As(err, &tve) {
		return tve.Field, tve.Message, true
	}
	return "", "", false
}

// respondError maps domain errors to HTTP. notFound is the message for tasks.ErrNotFound;
// surfaces that never see it pass "".
func respondError(c *gin.Context, op string, err error, notFound string) {
	if field, msg, ok := asValidation(err); ok {
		failField(c, http.StatusBadRequest, msg, field)
		return
	}
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		failField(c, http.StatusConflict, msgEmailTaken, "email")
	case errors.Is(err, users.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, msgInvalidLogin)
	case errors.Is(err, users.ErrNotFound):
		fail(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, tasks.ErrNotFound):
		fail(c, http.StatusNotFound, notFound)
	default:
		internalError(c, op, err)
	}
}
