package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TattooRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Description string    `gorm:"type:text;not null"`
	Placement   string
	Size        string

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ArtistID   *uuid.UUID `gorm:"type:uuid;index"`

	Customer Customer `gorm:"foreignKey:CustomerID"`
	Artist   *User    `gorm:"foreignKey:ArtistID"`

	Images []Image `gorm:"foreignKey:TattooRequestID"`

	// At most one appointment per request; the unique FK lives on Appointment.
	Appointment *Appointment `gorm:"foreignKey:TattooRequestID"`

	gorm.Model
}

func (t *TattooRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
