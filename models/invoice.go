package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	AmountDue     float64   `gorm:"type:decimal(10,2);not null"`

	Status string `gorm:"type:varchar(20);not null;default:'DRAFT';index"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	// Nullable unique FK: at most one invoice per appointment.
	AppointmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	Customer    Customer     `gorm:"foreignKey:CustomerID"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID"`

	Payments []Payment `gorm:"foreignKey:InvoiceID"`

	DueDate time.Time
	Notes   string

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
