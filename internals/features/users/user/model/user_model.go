package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the users table. Password is nil for accounts that
// only ever signed in with Google.
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email"`
	Password       *string   `gorm:"size:255" json:"-"`
	FullName       string    `gorm:"size:100;not null" json:"full_name" validate:"required,min=2,max=100"`
	Role           string    `gorm:"type:varchar(20);not null" json:"role" validate:"required,oneof=student teacher"`
	GoogleID       *string   `gorm:"size:255;uniqueIndex" json:"-"`
	ProfilePicture *string   `gorm:"size:512" json:"profile_picture,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
