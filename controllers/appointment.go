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

// CreateAppointmentInput defines the expected JSON structure for booking
type CreateAppointmentInput struct {
	CustomerID      uuid.UUID  `json:"customerId" binding:"required"`
	ArtistID        *uuid.UUID `json:"artistId"`
	TattooRequestID *uuid.UUID `json:"tattooRequestId"`
	DateTime        time.Time  `json:"dateTime" binding:"required"`
	Duration        int        `json:"duration" binding:"omitempty,min=15"`
	Notes           string     `json:"notes"`
}

// CreateAppointment books an appointment through the lifecycle engine. A second
// booking against the same tattoo request returns 409.
func CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
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

	// Validate artist if provided
	if input.ArtistID != nil {
		if !validateArtist(c, *input.ArtistID) {
			return
		}
	}

	actor, ok := actorFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	id, err := services.Lifecycle().CreateAppointment(c.Request.Context(), lifecycle.NewAppointment{
		CustomerID:      input.CustomerID,
		ArtistID:        input.ArtistID,
		TattooRequestID: input.TattooRequestID,
		DateTime:        input.DateTime,
		Duration:        input.Duration,
		Notes:           input.Notes,
	}, actor)
	if err != nil {
		utils.RespondWithLifecycleError(c, err)
		return
	}

	var appointment models.Appointment
	if err := config.DB.Preload("Customer").First(&appointment, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments retrieves appointments, optionally filtered by status or artist
func GetAppointments(c *gin.Context) {
	query := config.DB.Preload("Customer")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if artist := c.Query("artistId"); artist != "" {
		artistUUID, err := uuid.Parse(artist)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid artist ID format")
			return
		}
		query = query.Where("artist_id = ?", artistUUID)
	}

	var appointments []models.Appointment
	if err := query.Order("date_time").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment retrieves a specific appointment by ID
func GetAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := config.DB.
		Preload("Customer").
		Preload("Artist").
		Preload("TattooRequest").
		Preload("Payments").
		Preload("Invoice").
		First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// TransitionAppointment applies a status transition via the lifecycle engine
func TransitionAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
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

	_, err = services.Lifecycle().Transition(c.Request.Context(), lifecycle.EntityAppointment,
		appointmentUUID, lifecycle.Status(input.Status), actor, input.Metadata)
	if err != nil {
		utils.RespondWithLifecycleError(c, err)
		return
	}

	var appointment models.Appointment
	if err := config.DB.Preload("Customer").First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, appointment)
}
