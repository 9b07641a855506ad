package models

type QuestionType string

const (
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	OpenEnded      QuestionType = "OPEN_ENDED"
	RatingScale    QuestionType = "RATING_SCALE"
	YesNo          QuestionType = "YES_NO"
)

// HasOptions reports whether answers to this type select from the option set.
func (t QuestionType) HasOptions() bool {
	return t != OpenEnded
}

type Question struct {
	ID   uint         `json:"id" gorm:"primaryKey"`
	Text string       `json:"question" gorm:"not null;type:text" validate:"required,min=1"`
	Type QuestionType `json:"type" gorm:"not null;default:SINGLE_CHOICE;size:20" validate:"required,question_type"`

	SongID string `json:"song_id" gorm:"not null;size:36;index"`
	Song   Song   `json:"-" gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE"`

	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionOption struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Text string `json:"option" gorm:"not null;size:500" validate:"required,min=1"`

	QuestionID uint     `json:"question_id" gorm:"not null;index"`
	Question   Question `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
