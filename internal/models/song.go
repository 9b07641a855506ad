package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Song struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	FileURL  string `json:"file_url" gorm:"not null;size:500" validate:"required,url"`
	Duration *int   `json:"duration"`

	PlayCount int `json:"play_count" gorm:"default:0"`

	AuthorID string `json:"author_id" gorm:"not null;size:36;index"`
	Author   User   `json:"-" gorm:"foreignKey:AuthorID"`

	// Track metadata mirrored from the external catalog (album, artwork, preview URL).
	TrackInfo datatypes.JSON `json:"track_info,omitempty" gorm:"type:jsonb"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Song) TableName() string {
	return "songs"
}

func (s *Song) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
