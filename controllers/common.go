package controllers

import (
	"tattoopro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransitionInput is the shared body for every status-transition endpoint
type TransitionInput struct {
	Status   string       `json:"status" binding:"required"`
	Metadata models.JSONB `json:"metadata"`
}

// actorFromContext resolves the authenticated user id set by the auth middleware
func actorFromContext(c *gin.Context) (*uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		return nil, false
	}
	s, ok := userID.(string)
	if !ok {
		return nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return &id, true
}
