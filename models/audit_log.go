package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is append-only: rows are created by accepted lifecycle transitions and
// never updated or deleted. No gorm.Model on purpose.
type AuditLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Action string    `gorm:"size:100;not null;index"`

	EntityType string    `gorm:"size:30;not null;index"`
	EntityID   uuid.UUID `gorm:"type:uuid;index;not null"`
	FromStatus string    `gorm:"size:20"`
	ToStatus   string    `gorm:"size:20"`

	Details JSONB `gorm:"type:jsonb;default:'{}'"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"index"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
