package controllers

import (
	"errors"
	"net/http"

	"tattoopro-backend/config"
	"tattoopro-backend/models"
	"tattoopro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateImageInput records a finished Cloudinary upload
type CreateImageInput struct {
	CloudinaryURL      string     `json:"cloudinaryUrl" binding:"required,url"`
	CloudinaryPublicID string     `json:"cloudinaryPublicId"`
	TattooRequestID    *uuid.UUID `json:"tattooRequestId"`
}

// CreateImage stores the upload result, optionally attached to a tattoo request
func CreateImage(c *gin.Context) {
	var input CreateImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.TattooRequestID != nil {
		var request models.TattooRequest
		if err := config.DB.First(&request, "id = ?", *input.TattooRequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Tattoo request not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	image := models.Image{
		CloudinaryURL:      input.CloudinaryURL,
		CloudinaryPublicID: input.CloudinaryPublicID,
		TattooRequestID:    input.TattooRequestID,
	}

	if err := config.DB.Create(&image).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save image")
		return
	}

	c.JSON(http.StatusCreated, image)
}

// GetImages lists images, optionally filtered by tattoo request
func GetImages(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if request := c.Query("tattooRequestId"); request != "" {
		requestUUID, err := uuid.Parse(request)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid tattoo request ID format")
			return
		}
		query = query.Where("tattoo_request_id = ?", requestUUID)
	}

	var images []models.Image
	if err := query.Find(&images).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve images")
		return
	}

	c.JSON(http.StatusOK, images)
}

// DeleteImage removes an image record (the Cloudinary asset is cleaned up
// separately by the frontend)
func DeleteImage(c *gin.Context) {
	imageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid image ID format")
		return
	}

	var image models.Image
	if err := config.DB.First(&image, "id = ?", imageUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Image not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&image).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
