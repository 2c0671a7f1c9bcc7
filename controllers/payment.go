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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePaymentInput defines the expected JSON structure for recording a payment
type CreatePaymentInput struct {
	CustomerID      uuid.UUID  `json:"customerId" binding:"required"`
	AppointmentID   *uuid.UUID `json:"appointmentId"`
	InvoiceID       *uuid.UUID `json:"invoiceId"`
	Amount          float64    `json:"amount" binding:"min=0"`
	SquarePaymentID *string    `json:"squarePaymentId"`
	PaymentMethod   string     `json:"paymentMethod"`
	Notes           string     `json:"notes"`
}

// CreatePayment records a PENDING payment. Capture and refund results arrive
// later as transitions, usually via the Square webhook.
func CreatePayment(c *gin.Context) {
	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate customer exists
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	payment := models.Payment{
		CustomerID:      input.CustomerID,
		AppointmentID:   input.AppointmentID,
		InvoiceID:       input.InvoiceID,
		Amount:          input.Amount,
		SquarePaymentID: input.SquarePaymentID,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
		Status:          string(lifecycle.DefaultRegistry().InitialStatus(lifecycle.EntityPayment)),
	}

	if err := config.DB.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Square payment ID already recorded")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetPayments retrieves payments, optionally filtered by status or invoice
func GetPayments(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if invoice := c.Query("invoiceId"); invoice != "" {
		invoiceUUID, err := uuid.Parse(invoice)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
			return
		}
		query = query.Where("invoice_id = ?", invoiceUUID)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPayment retrieves a specific payment by ID
func GetPayment(c *gin.Context) {
	paymentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	var payment models.Payment
	if err := config.DB.Preload("Customer").First(&payment, "id = ?", paymentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, payment)
}

// TransitionPayment applies a status transition via the lifecycle engine
func TransitionPayment(c *gin.Context) {
	paymentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	var input TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	_, err = services.Lifecycle().Transition(c.Request.Context(), lifecycle.EntityPayment,
		paymentUUID, lifecycle.Status(input.Status), actor, input.Metadata)
	if err != nil {
		utils.RespondWithLifecycleError(c, err)
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, "id = ?", paymentUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, payment)
}
