// utils/response.go
package utils

import (
	"errors"
	"net/http"

	"tattoopro-backend/lifecycle"

	"github.com/gin-gonic/gin"
)

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// RespondWithLifecycleError maps the engine's typed errors to response codes.
// ConcurrentModification gets a 409 so webhook senders redeliver.
func RespondWithLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, lifecycle.ErrInsufficientPayment):
		RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, lifecycle.ErrDuplicateRelation), errors.Is(err, lifecycle.ErrDuplicateKey):
		RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrConcurrentModification):
		RespondWithError(c, http.StatusConflict, "entity changed concurrently, retry")
	default:
		RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
