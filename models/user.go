package models

import (
	"time"

	"tattoopro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Artists and assistants are staff; admins manage the studio.
const (
	RoleUser      = "USER"
	RoleArtist    = "ARTIST"
	RoleAssistant = "ASSISTANT"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null"`
	Phone    string

	Role string `gorm:"type:varchar(20);not null;default:'USER'"`

	// Links held as artist; all optional on the owning side.
	TattooRequests []TattooRequest `gorm:"foreignKey:ArtistID"`
	Appointments   []Appointment   `gorm:"foreignKey:ArtistID"`
	AuditLogs      []AuditLog      `gorm:"foreignKey:UserID"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
