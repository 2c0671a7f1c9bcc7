package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image records a Cloudinary upload result; the upload itself happens client-side.
type Image struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	CloudinaryURL      string    `gorm:"not null"`
	CloudinaryPublicID string

	TattooRequestID *uuid.UUID `gorm:"type:uuid;index"`

	gorm.Model
}

func (i *Image) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
