// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"tattoopro-backend/config"
	"tattoopro-backend/lifecycle"
	"tattoopro-backend/models"
	"tattoopro-backend/services"
	"tattoopro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoiceInput defines the expected JSON structure for creating an invoice
type CreateInvoiceInput struct {
	CustomerID    uuid.UUID  `json:"customerId" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointmentId"`
	AmountDue     float64    `json:"amountDue" binding:"required,gt=0"`
	DueDate       *time.Time `json:"dueDate"`
	Notes         string     `json:"notes"`
}

// CreateInvoice raises a DRAFT invoice through the lifecycle engine. A second
// invoice for the same appointment returns 409.
func CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
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

	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	// Default due date two weeks out
	dueDate := time.Now().AddDate(0, 0, 14)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	invoiceNumber := "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

	id, err := services.Lifecycle().CreateInvoice(c.Request.Context(), lifecycle.NewInvoice{
		InvoiceNumber: invoiceNumber,
		CustomerID:    input.CustomerID,
		AppointmentID: input.AppointmentID,
		AmountDue:     input.AmountDue,
		DueDate:       dueDate,
		Notes:         input.Notes,
	}, actor)
	if err != nil {
		utils.RespondWithLifecycleError(c, err)
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Customer").First(&invoice, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices retrieves invoices, optionally filtered by status
func GetInvoices(c *gin.Context) {
	query := config.DB.Preload("Payments")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.
		Preload("Payments").
		Preload("Customer").
		Preload("Appointment").
		First(&invoice, "id = ?", invoiceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// TransitionInvoice applies a status transition via the lifecycle engine.
// Marking PAID fails with 422 unless the settled payment total covers the amount
// due.
func TransitionInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
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

	_, err = services.Lifecycle().Transition(c.Request.Context(), lifecycle.EntityInvoice,
		invoiceUUID, lifecycle.Status(input.Status), actor, input.Metadata)
	if err != nil {
		utils.RespondWithLifecycleError(c, err)
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Payments").First(&invoice, "id = ?", invoiceUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, invoice)
}
