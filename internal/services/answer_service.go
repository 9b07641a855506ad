package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tunerate/feedback-service/internal/cache"
	"github.com/tunerate/feedback-service/internal/events"
	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"github.com/tunerate/feedback-service/internal/utils"
)

// ===== REQUEST TYPES =====

// SelectionKind enumerates the decoded shapes of the questionOptionId field.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionSingle
	SelectionMulti
)

// OptionSelection is the decoded form of the wire field
// `questionOptionId: number | number[]`. It is built once during JSON decoding;
// past this point validation dispatches on the question type without inspecting
// raw JSON again.
type OptionSelection struct {
	kind   SelectionKind
	single int64
	multi  []int64
}

func (s OptionSelection) Kind() SelectionKind { return s.kind }
func (s OptionSelection) Single() int64       { return s.single }
func (s OptionSelection) Multi() []int64      { return s.multi }

func SingleSelection(id int64) OptionSelection {
	return OptionSelection{kind: SelectionSingle, single: id}
}

func MultiSelection(ids []int64) OptionSelection {
	return OptionSelection{kind: SelectionMulti, multi: ids}
}

// AnswerItem is one submitted answer within a submission.
type AnswerItem struct {
	QuestionID   uint
	Selection    OptionSelection
	OpenedAnswer string
}

func (a *AnswerItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuestionID       uint            `json:"questionId"`
		QuestionOptionID json.RawMessage `json:"questionOptionId"`
		OpenedAnswer     string          `json:"openedAnswer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.QuestionID = raw.QuestionID
	a.OpenedAnswer = raw.OpenedAnswer
	a.Selection = OptionSelection{}

	if len(raw.QuestionOptionID) == 0 || string(raw.QuestionOptionID) == "null" {
		return nil
	}

	var single int64
	if err := json.Unmarshal(raw.QuestionOptionID, &single); err == nil {
		a.Selection = SingleSelection(single)
		return nil
	}

	var multi []int64
	if err := json.Unmarshal(raw.QuestionOptionID, &multi); err == nil {
		a.Selection = MultiSelection(multi)
		return nil
	}

	return fmt.Errorf("questionOptionId must be a number or an array of numbers")
}

// SubmitAnswersRequest is the submission payload: one user, one song, one answer
// per question of the song.
type SubmitAnswersRequest struct {
	UserID  string       `json:"userId" validate:"required"`
	SongID  string       `json:"songId" validate:"required"`
	Answers []AnswerItem `json:"answers" validate:"required,min=1"`
}

// ===== SERVICE =====

type AnswerService interface {
	// Submit validates a full submission against the song's question schema and,
	// when valid, persists all answer rows plus the score increment atomically.
	Submit(ctx context.Context, req *SubmitAnswersRequest) error
}

type answerService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
	publisher events.EventPublisher
	cache     cache.CacheService
}

func NewAnswerService(
	repo repositories.Repository,
	logger utils.Logger,
	validator *utils.Validator,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
) AnswerService {
	return &answerService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheService,
	}
}

func (s *answerService) Submit(ctx context.Context, req *SubmitAnswersRequest) error {
	s.logger.InfoContext(ctx, "Submitting answers",
		"user_id", req.UserID,
		"song_id", req.SongID,
		"answers_count", len(req.Answers))

	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.repo.User().GetByID(ctx, req.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	song, err := s.repo.Song().GetByIDWithQuestions(ctx, req.SongID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSongNotFound
		}
		return fmt.Errorf("failed to get song: %w", err)
	}

	if len(song.Questions) == 0 {
		return ErrNoQuestions
	}

	schema := buildSchemaIndex(song)

	// Fast-path duplicate check before doing any validation work. The
	// authoritative check runs again under the transaction's user-row lock.
	answered, err := s.repo.Answer().CountByUserAndQuestions(ctx, req.UserID, schema.questionIDs())
	if err != nil {
		return fmt.Errorf("failed to check existing answers: %w", err)
	}
	if answered > 0 {
		return ErrAlreadySubmitted
	}

	normalized, err := normalizeAnswers(schema, req.UserID, req.Answers)
	if err != nil {
		return err
	}

	// Atomic unit: uniqueness re-check, batch insert, score increment. The
	// FOR UPDATE read on the user row serializes racing submissions for the
	// same user, so at most one of two concurrent submissions commits.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.User().GetByIDForUpdate(ctx, req.UserID); err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}

		answered, err := tx.Answer().CountByUserAndQuestions(ctx, req.UserID, schema.questionIDs())
		if err != nil {
			return fmt.Errorf("failed to re-check existing answers: %w", err)
		}
		if answered > 0 {
			return ErrAlreadySubmitted
		}

		if err := tx.Answer().CreateBatch(ctx, normalized); err != nil {
			return NewPersistenceError("answer batch insert", err)
		}

		// One point per completed submission, not per answer row.
		if err := tx.User().IncrementTotalScore(ctx, req.UserID, 1); err != nil {
			return NewPersistenceError("score increment", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Answers saved",
		"user_id", req.UserID,
		"song_id", req.SongID,
		"rows", len(normalized))

	// The cached report for this song is stale now.
	if err := s.cache.Delete(ctx, statsCacheKey(req.SongID)); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate statistics cache",
			"song_id", req.SongID, "error", err)
	}

	event := events.NewAnswerSubmittedEvent(req.UserID, req.SongID, len(normalized))
	if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		// The submission is committed; a publish failure must not undo it.
		s.logger.ErrorContext(ctx, "Failed to publish submission event",
			"user_id", req.UserID, "song_id", req.SongID, "error", err)
	}

	return nil
}

// ===== VALIDATION =====

// normalizeAnswers enforces completeness, membership and per-type shape, and
// produces the flat ordered list of answer rows for bulk insertion. All-or-nothing:
// any rejection discards the whole submission.
func normalizeAnswers(schema *schemaIndex, userID string, items []AnswerItem) ([]*models.Answer, error) {
	var verrs ValidationErrors

	// Set difference both ways before any per-answer validation, reporting every
	// offender rather than the first one.
	submitted := make(map[uint]struct{}, len(items))
	for _, item := range items {
		submitted[item.QuestionID] = struct{}{}
	}

	for _, item := range items {
		if _, ok := schema.questions[item.QuestionID]; !ok {
			verrs = append(verrs, ValidationError{
				Field:   "questionId",
				Message: "is not part of this song's questionnaire",
				Value:   item.QuestionID,
			})
			// avoid duplicate entries when the same unknown id repeats
			delete(submitted, item.QuestionID)
		}
	}

	for _, q := range schema.ordered {
		if _, ok := submitted[q.ID]; !ok {
			verrs = append(verrs, ValidationError{
				Field:   "questionId",
				Message: "missing answer for this question",
				Value:   q.ID,
			})
		}
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	normalized := make([]*models.Answer, 0, len(items))

	for _, item := range items {
		question := schema.questions[item.QuestionID]

		switch question.Type {
		case models.OpenEnded:
			if strings.TrimSpace(item.OpenedAnswer) == "" {
				return nil, ValidationErrors{{
					Field:   "openedAnswer",
					Message: fmt.Sprintf("answer required for question %d", item.QuestionID),
					Value:   item.QuestionID,
				}}
			}
			text := item.OpenedAnswer
			normalized = append(normalized, &models.Answer{
				UserID:       userID,
				QuestionID:   item.QuestionID,
				OpenedAnswer: &text,
			})

		case models.SingleChoice, models.YesNo, models.RatingScale:
			optionID, ok := singleOption(schema, item)
			if !ok {
				return nil, ValidationErrors{{
					Field:   "questionOptionId",
					Message: fmt.Sprintf("invalid option for question %d", item.QuestionID),
					Value:   item.Selection.Single(),
				}}
			}
			normalized = append(normalized, &models.Answer{
				UserID:           userID,
				QuestionID:       item.QuestionID,
				QuestionOptionID: &optionID,
			})

		case models.MultipleChoice:
			ids := item.Selection.Multi()
			if item.Selection.Kind() != SelectionMulti || len(ids) == 0 {
				return nil, ValidationErrors{{
					Field:   "questionOptionId",
					Message: fmt.Sprintf("choose at least one option for question %d", item.QuestionID),
					Value:   item.QuestionID,
				}}
			}
			// One row per selected option, sharing question id and user id.
			for _, id := range ids {
				if id < 0 || !schema.hasOption(item.QuestionID, uint(id)) {
					return nil, ValidationErrors{{
						Field:   "questionOptionId",
						Message: fmt.Sprintf("invalid option %d for question %d", id, item.QuestionID),
						Value:   id,
					}}
				}
				optionID := uint(id)
				normalized = append(normalized, &models.Answer{
					UserID:           userID,
					QuestionID:       item.QuestionID,
					QuestionOptionID: &optionID,
				})
			}

		default:
			return nil, ValidationErrors{{
				Field:   "type",
				Message: fmt.Sprintf("unsupported question type %q for question %d", question.Type, item.QuestionID),
				Value:   string(question.Type),
			}}
		}
	}

	return normalized, nil
}

func singleOption(schema *schemaIndex, item AnswerItem) (uint, bool) {
	if item.Selection.Kind() != SelectionSingle {
		return 0, false
	}
	id := item.Selection.Single()
	if id < 0 || !schema.hasOption(item.QuestionID, uint(id)) {
		return 0, false
	}
	return uint(id), true
}
