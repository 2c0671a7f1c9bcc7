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

// CreateTattooRequestInput defines the expected JSON structure for a new request
type CreateTattooRequestInput struct {
	CustomerID  uuid.UUID  `json:"customerId" binding:"required"`
	ArtistID    *uuid.UUID `json:"artistId"`
	Description string     `json:"description" binding:"required"`
	Placement   string     `json:"placement"`
	Size        string     `json:"size"`
}

// AssignArtistInput assigns or reassigns the artist on a request
type AssignArtistInput struct {
	ArtistID uuid.UUID `json:"artistId" binding:"required"`
}

// CreateTattooRequest creates a new tattoo request in PENDING
func CreateTattooRequest(c *gin.Context) {
	var input CreateTattooRequestInput
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

	request := models.TattooRequest{
		CustomerID:  input.CustomerID,
		ArtistID:    input.ArtistID,
		Description: input.Description,
		Placement:   input.Placement,
		Size:        input.Size,
		Status:      string(lifecycle.DefaultRegistry().InitialStatus(lifecycle.EntityTattooRequest)),
	}

	if err := config.DB.Create(&request).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create tattoo request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetTattooRequests retrieves requests, optionally filtered by status
func GetTattooRequests(c *gin.Context) {
	query := config.DB.Preload("Images")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.TattooRequest
	if err := query.Find(&requests).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve tattoo requests")
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetTattooRequest retrieves a specific request by ID
func GetTattooRequest(c *gin.Context) {
	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid tattoo request ID format")
		return
	}

	var request models.TattooRequest
	if err := config.DB.
		Preload("Images").
		Preload("Customer").
		Preload("Artist").
		Preload("Appointment").
		First(&request, "id = ?", requestUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Tattoo request not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, request)
}

// AssignArtist sets the artist on a request without touching its status
func AssignArtist(c *gin.Context) {
	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid tattoo request ID format")
		return
	}

	var input AssignArtistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !validateArtist(c, input.ArtistID) {
		return
	}

	var request models.TattooRequest
	if err := config.DB.First(&request, "id = ?", requestUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Tattoo request not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	request.ArtistID = &input.ArtistID
	if err := config.DB.Save(&request).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign artist")
		return
	}

	c.JSON(http.StatusOK, request)
}

// TransitionTattooRequest applies a status transition via the lifecycle engine
func TransitionTattooRequest(c *gin.Context) {
	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid tattoo request ID format")
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

	_, err = services.Lifecycle().Transition(c.Request.Context(), lifecycle.EntityTattooRequest,
		requestUUID, lifecycle.Status(input.Status), actor, input.Metadata)
	if err != nil {
		utils.RespondWithLifecycleError(c, err)
		return
	}

	var request models.TattooRequest
	if err := config.DB.Preload("Images").First(&request, "id = ?", requestUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, request)
}

// validateArtist checks the user exists and holds the ARTIST role. Writes the
// error response itself and returns false on failure.
func validateArtist(c *gin.Context, artistID uuid.UUID) bool {
	var artist models.User
	if err := config.DB.First(&artist, "id = ?", artistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Artist not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}
	if artist.Role != models.RoleArtist {
		utils.RespondWithError(c, http.StatusBadRequest, "User is not an artist")
		return false
	}
	return true
}
