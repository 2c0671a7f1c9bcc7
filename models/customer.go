package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Phone     *string
	Notes     string

	TattooRequests []TattooRequest `gorm:"foreignKey:CustomerID"`
	Appointments   []Appointment   `gorm:"foreignKey:CustomerID"`
	Payments       []Payment       `gorm:"foreignKey:CustomerID"`
	Invoices       []Invoice       `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
