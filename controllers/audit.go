package controllers

import (
	"net/http"
	"strconv"

	"tattoopro-backend/config"
	"tattoopro-backend/models"
	"tattoopro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetAuditLogs lists the audit trail, newest first. Admin only; the trail itself
// is append-only and has no write endpoint.
func GetAuditLogs(c *gin.Context) {
	query := config.DB.Order("created_at DESC")

	if entityType := c.Query("entityType"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID := c.Query("entityId"); entityID != "" {
		entityUUID, err := uuid.Parse(entityID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid entity ID format")
			return
		}
		query = query.Where("entity_id = ?", entityUUID)
	}

	limit := 100
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > 1000 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	var logs []models.AuditLog
	if err := query.Limit(limit).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve audit logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
