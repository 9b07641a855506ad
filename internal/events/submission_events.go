package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAnswerSubmitted EventType = "feedback.answer_submitted"
)

// SubmissionEvent is the envelope published after a submission is committed.
type SubmissionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// AnswerSubmittedEvent carries the facts downstream consumers care about:
// who answered which song, and how many answer rows the submission produced.
type AnswerSubmittedEvent struct {
	UserID      string `json:"user_id"`
	SongID      string `json:"song_id"`
	AnswerCount int    `json:"answer_count"`
}

func NewAnswerSubmittedEvent(userID, songID string, answerCount int) *SubmissionEvent {
	return &SubmissionEvent{
		ID:        uuid.NewString(),
		Type:      EventAnswerSubmitted,
		Source:    "feedback-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data: AnswerSubmittedEvent{
			UserID:      userID,
			SongID:      songID,
			AnswerCount: answerCount,
		},
	}
}
