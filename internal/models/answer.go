package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer is one persisted response row. It references either a question option
// (choice, rating and yes/no types) or carries free text (open-ended), never both.
// QuestionID is denormalized next to the option relation so aggregate queries can
// group without joining through question_options.
//
// A MULTIPLE_CHOICE response is stored as one row per selected option, all sharing
// the same user_id and question_id.
type Answer struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`

	UserID string `json:"user_id" gorm:"not null;size:36;index:idx_answers_user_question,priority:1"`
	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	QuestionID uint `json:"question_id" gorm:"not null;index;index:idx_answers_user_question,priority:2"`

	QuestionOptionID *uint           `json:"question_option_id" gorm:"index"`
	QuestionOption   *QuestionOption `json:"-" gorm:"foreignKey:QuestionOptionID;constraint:OnDelete:CASCADE"`

	OpenedAnswer *string `json:"opened_answer" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (Answer) TableName() string {
	return "answers"
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
