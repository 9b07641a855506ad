package services

import (
	"context"
	"fmt"

	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"github.com/tunerate/feedback-service/internal/utils"
)

// ===== REQUEST TYPES =====

type QuestionInput struct {
	Text    string              `json:"text" validate:"required"`
	Type    models.QuestionType `json:"type" validate:"required,question_type"`
	Options []string            `json:"options" validate:"dive,required"`
}

type CreateFeedbackRequest struct {
	SongID    string          `json:"songId" validate:"required"`
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type AddQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type UpdateQuestionRequest struct {
	Text string `json:"text" validate:"required"`
}

type AddOptionsRequest struct {
	Options []string `json:"options" validate:"required,min=1,dive,required"`
}

type UpdateOptionRequest struct {
	Text string `json:"text" validate:"required"`
}

// ===== SERVICE =====

// FeedbackService manages a song's questionnaire. All mutations require the
// caller to be the song's author.
type FeedbackService interface {
	CreateFeedback(ctx context.Context, authorID string, req *CreateFeedbackRequest) ([]*models.Question, error)
	GetFeedback(ctx context.Context, songID string) ([]*models.Question, error)
	DeleteFeedback(ctx context.Context, authorID, songID string) error

	AddQuestions(ctx context.Context, authorID, songID string, req *AddQuestionsRequest) ([]*models.Question, error)
	UpdateQuestion(ctx context.Context, authorID string, questionID uint, req *UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestions(ctx context.Context, authorID, songID string, questionIDs []uint) error

	AddOptions(ctx context.Context, authorID string, questionID uint, req *AddOptionsRequest) (*models.Question, error)
	UpdateOption(ctx context.Context, authorID string, optionID uint, req *UpdateOptionRequest) (*models.QuestionOption, error)
	DeleteOptions(ctx context.Context, authorID string, questionID uint, optionIDs []uint) error

	// GetOpenedQuestions lists the song's OPEN_ENDED questions, the entry points
	// for browsing free-text answers.
	GetOpenedQuestions(ctx context.Context, songID string) ([]*models.Question, error)
}

type feedbackService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
}

func NewFeedbackService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator) FeedbackService {
	return &feedbackService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *feedbackService) CreateFeedback(ctx context.Context, authorID string, req *CreateFeedbackRequest) ([]*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.authorizedSong(ctx, authorID, req.SongID); err != nil {
		return nil, err
	}

	existing, err := s.repo.Question().CountBySong(ctx, req.SongID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if existing > 0 {
		return nil, ErrFeedbackExists
	}

	questions, err := buildQuestions(req.SongID, req.Questions)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
		return nil, NewPersistenceError("feedback create", err)
	}

	s.logger.InfoContext(ctx, "Feedback created",
		"song_id", req.SongID, "questions", len(questions))

	return questions, nil
}

func (s *feedbackService) GetFeedback(ctx context.Context, songID string) ([]*models.Question, error) {
	if _, err := s.repo.Song().GetByID(ctx, songID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song: %w", err)
	}

	questions, err := s.repo.Question().GetBySong(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return questions, nil
}

func (s *feedbackService) DeleteFeedback(ctx context.Context, authorID, songID string) error {
	if _, err := s.authorizedSong(ctx, authorID, songID); err != nil {
		return err
	}

	questions, err := s.repo.Question().GetBySong(ctx, songID)
	if err != nil {
		return fmt.Errorf("failed to get questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	if err := s.repo.Question().DeleteBatch(ctx, ids); err != nil {
		return NewPersistenceError("feedback delete", err)
	}

	s.logger.InfoContext(ctx, "Feedback deleted", "song_id", songID, "questions", len(ids))
	return nil
}

func (s *feedbackService) AddQuestions(ctx context.Context, authorID, songID string, req *AddQuestionsRequest) ([]*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.authorizedSong(ctx, authorID, songID); err != nil {
		return nil, err
	}

	questions, err := buildQuestions(songID, req.Questions)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Question().CreateBatch(ctx, questions); err != nil {
		return nil, NewPersistenceError("question create", err)
	}
	return questions, nil
}

func (s *feedbackService) UpdateQuestion(ctx context.Context, authorID string, questionID uint, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	question, err := s.authorizedQuestion(ctx, authorID, questionID)
	if err != nil {
		return nil, err
	}

	question.Text = req.Text
	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, NewPersistenceError("question update", err)
	}
	return question, nil
}

func (s *feedbackService) DeleteQuestions(ctx context.Context, authorID, songID string, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return fmt.Errorf("%w: no question ids given", ErrValidationFailed)
	}

	if _, err := s.authorizedSong(ctx, authorID, songID); err != nil {
		return err
	}

	for _, id := range questionIDs {
		question, err := s.repo.Question().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("failed to get question: %w", err)
		}
		if question.SongID != songID {
			return ErrQuestionNotFound
		}
	}

	if err := s.repo.Question().DeleteBatch(ctx, questionIDs); err != nil {
		return NewPersistenceError("question delete", err)
	}
	return nil
}

func (s *feedbackService) AddOptions(ctx context.Context, authorID string, questionID uint, req *AddOptionsRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	question, err := s.authorizedQuestion(ctx, authorID, questionID)
	if err != nil {
		return nil, err
	}

	if !question.Type.HasOptions() {
		return nil, fmt.Errorf("%w: question %d does not take options", ErrValidationFailed, questionID)
	}

	options := make([]*models.QuestionOption, 0, len(req.Options))
	for _, text := range req.Options {
		options = append(options, &models.QuestionOption{
			Text:       text,
			QuestionID: questionID,
		})
	}

	if err := s.repo.Question().CreateOptions(ctx, options); err != nil {
		return nil, NewPersistenceError("option create", err)
	}

	return s.repo.Question().GetByID(ctx, questionID)
}

func (s *feedbackService) UpdateOption(ctx context.Context, authorID string, optionID uint, req *UpdateOptionRequest) (*models.QuestionOption, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	option, err := s.repo.Question().GetOption(ctx, optionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOptionNotFound
		}
		return nil, fmt.Errorf("failed to get option: %w", err)
	}

	if _, err := s.authorizedQuestion(ctx, authorID, option.QuestionID); err != nil {
		return nil, err
	}

	option.Text = req.Text
	if err := s.repo.Question().UpdateOption(ctx, option); err != nil {
		return nil, NewPersistenceError("option update", err)
	}
	return option, nil
}

func (s *feedbackService) DeleteOptions(ctx context.Context, authorID string, questionID uint, optionIDs []uint) error {
	if len(optionIDs) == 0 {
		return fmt.Errorf("%w: no option ids given", ErrValidationFailed)
	}

	question, err := s.authorizedQuestion(ctx, authorID, questionID)
	if err != nil {
		return err
	}

	valid := make(map[uint]struct{}, len(question.Options))
	for _, opt := range question.Options {
		valid[opt.ID] = struct{}{}
	}
	for _, id := range optionIDs {
		if _, ok := valid[id]; !ok {
			return ErrOptionNotFound
		}
	}

	if err := s.repo.Question().DeleteOptions(ctx, optionIDs); err != nil {
		return NewPersistenceError("option delete", err)
	}
	return nil
}

func (s *feedbackService) GetOpenedQuestions(ctx context.Context, songID string) ([]*models.Question, error) {
	questions, err := s.GetFeedback(ctx, songID)
	if err != nil {
		return nil, err
	}

	opened := make([]*models.Question, 0)
	for _, q := range questions {
		if q.Type == models.OpenEnded {
			opened = append(opened, q)
		}
	}
	if len(opened) == 0 {
		return nil, ErrNoOpenedQuestions
	}
	return opened, nil
}

// ===== HELPERS =====

// authorizedSong fetches the song and enforces the author-only rule.
func (s *feedbackService) authorizedSong(ctx context.Context, authorID, songID string) (*models.Song, error) {
	song, err := s.repo.Song().GetByID(ctx, songID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	if song.AuthorID != authorID {
		return nil, ErrNotSongAuthor
	}
	return song, nil
}

func (s *feedbackService) authorizedQuestion(ctx context.Context, authorID string, questionID uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if _, err := s.authorizedSong(ctx, authorID, question.SongID); err != nil {
		return nil, err
	}
	return question, nil
}

// buildQuestions turns questionnaire input into model rows. Option lists on
// OPEN_ENDED questions are rejected; option-bearing types must have at least one.
func buildQuestions(songID string, inputs []QuestionInput) ([]*models.Question, error) {
	questions := make([]*models.Question, 0, len(inputs))
	for _, in := range inputs {
		if in.Type.HasOptions() && len(in.Options) == 0 {
			return nil, fmt.Errorf("%w: question %q of type %s requires options", ErrValidationFailed, in.Text, in.Type)
		}
		if !in.Type.HasOptions() && len(in.Options) > 0 {
			return nil, fmt.Errorf("%w: question %q of type %s cannot have options", ErrValidationFailed, in.Text, in.Type)
		}

		q := &models.Question{
			Text:   in.Text,
			Type:   in.Type,
			SongID: songID,
		}
		for _, text := range in.Options {
			q.Options = append(q.Options, models.QuestionOption{Text: text})
		}
		questions = append(questions, q)
	}
	return questions, nil
}
