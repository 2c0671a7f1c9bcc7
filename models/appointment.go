package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	DateTime time.Time `gorm:"not null;index"`
	Duration int       // in minutes

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ArtistID   *uuid.UUID `gorm:"type:uuid;index"`

	// Nullable unique FK: at most one appointment per tattoo request,
	// multiple NULLs allowed for walk-ins.
	TattooRequestID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	Customer      Customer       `gorm:"foreignKey:CustomerID"`
	Artist        *User          `gorm:"foreignKey:ArtistID"`
	TattooRequest *TattooRequest `gorm:"foreignKey:TattooRequestID"`

	Payments []Payment `gorm:"foreignKey:AppointmentID"`
	Invoice  *Invoice  `gorm:"foreignKey:AppointmentID"`

	Notes string

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
