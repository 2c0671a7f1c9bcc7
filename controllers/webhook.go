package controllers

import (
	"errors"
	"net/http"

	"tattoopro-backend/config"
	"tattoopro-backend/lifecycle"
	"tattoopro-backend/models"
	"tattoopro-backend/services"
	"tattoopro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SquareWebhookInput mirrors the fields we consume from Square's event envelope
type SquareWebhookInput struct {
	Type string `json:"type" binding:"required"`
	Data struct {
		Object struct {
			Payment struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"payment"`
			Refund struct {
				PaymentID string `json:"payment_id"`
				Status    string `json:"status"`
			} `json:"refund"`
		} `json:"object"`
	} `json:"data"`
}

// SquareWebhook consumes payment.updated and refund.updated callbacks and feeds
// them into the engine as ordinary transitions. We never call Square back; a 409
// tells Square to redeliver after a lost concurrency race.
func SquareWebhook(c *gin.Context) {
	var input SquareWebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var squareID string
	var target lifecycle.Status

	switch input.Type {
	case "payment.updated":
		squareID = input.Data.Object.Payment.ID
		switch input.Data.Object.Payment.Status {
		case "COMPLETED":
			target = lifecycle.PaymentSucceeded
		case "FAILED", "CANCELED":
			target = lifecycle.PaymentFailed
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}
	case "refund.updated":
		squareID = input.Data.Object.Refund.PaymentID
		if input.Data.Object.Refund.Status != "COMPLETED" {
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}
		target = lifecycle.PaymentRefunded
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
		return
	}

	if squareID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing payment ID")
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, "square_payment_id = ?", squareID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Redelivered events for an already-applied status are acknowledged, not
	// replayed.
	if payment.Status == string(target) {
		c.JSON(http.StatusOK, gin.H{"message": "Already applied"})
		return
	}

	_, err := services.Lifecycle().Transition(c.Request.Context(), lifecycle.EntityPayment,
		payment.ID, target, nil, models.JSONB{"source": "square", "event": input.Type})
	if err != nil {
		utils.RespondWithLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment updated"})
}
