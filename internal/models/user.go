package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleListener UserRole = "listener"
	RoleAuthor   UserRole = "author"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:36"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Username *string  `json:"username" gorm:"size:100"`
	Role     UserRole `json:"role" gorm:"default:listener;size:20" validate:"omitempty,oneof=listener author admin"`

	IsPremium bool `json:"is_premium" gorm:"default:false"`

	// One point per completed song submission, incremented by the submission guard.
	TotalScore int `json:"total_score" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Answers []Answer `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
