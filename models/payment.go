package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Amount float64   `gorm:"type:decimal(10,2);not null"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	// Square's payment id, set once the gateway has acknowledged the payment.
	SquarePaymentID *string `gorm:"uniqueIndex"`

	CustomerID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceID     *uuid.UUID `gorm:"type:uuid;index"`

	Customer    Customer     `gorm:"foreignKey:CustomerID"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID"`
	Invoice     *Invoice     `gorm:"foreignKey:InvoiceID"`

	PaymentMethod string
	Notes         string

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
