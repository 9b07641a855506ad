package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tunerate/feedback-service/internal/cache"
	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"github.com/tunerate/feedback-service/internal/utils"
)

const statsCacheTTL = 2 * time.Minute

func statsCacheKey(songID string) string {
	return "stats:song:" + songID
}

// ===== REPORT TYPES =====

// StatisticsReport is the aggregated view of all submissions for one song. It
// enumerates the full question schema; questions and options nobody answered
// appear with zero counts.
type StatisticsReport struct {
	SongID             string               `json:"songId"`
	TotalParticipants  int64                `json:"totalParticipants"`
	QuestionStatistics []QuestionStatistics `json:"questionStatistics"`
}

type QuestionStatistics struct {
	QuestionID       uint                `json:"questionId"`
	Text             string              `json:"text"`
	Type             models.QuestionType `json:"type"`
	TotalAnswers     int64               `json:"totalAnswers"`
	OpenAnswerCount  int64               `json:"openAnswerCount"`
	OptionStatistics []OptionStatistics  `json:"optionsStatistics"`
}

type OptionStatistics struct {
	OptionID     uint   `json:"optionId"`
	OptionText   string `json:"optionText"`
	TotalAnswers int64  `json:"totalAnswers"`
}

// OpenAnswerPage is one page of free-text answers for a single question,
// carrying the question prompt so clients can render the page standalone.
type OpenAnswerPage struct {
	QuestionID    uint       `json:"questionId"`
	Question      string     `json:"question"`
	OpenedAnswers []string   `json:"openedAnswers"`
	Pagination    Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

// ===== SERVICE =====

type StatisticsService interface {
	// GetSongStatistics assembles the aggregate report for a song. Read-only;
	// calling it repeatedly without new submissions yields identical reports.
	GetSongStatistics(ctx context.Context, songID string) (*StatisticsReport, error)
	// GetOpenAnswers returns one page of free-text answers for a question,
	// ordered oldest first.
	GetOpenAnswers(ctx context.Context, questionID uint, page, limit int) (*OpenAnswerPage, error)
}

type statisticsService struct {
	repo   repositories.Repository
	logger utils.Logger
	cache  cache.CacheService
}

func NewStatisticsService(repo repositories.Repository, logger utils.Logger, cacheService cache.CacheService) StatisticsService {
	return &statisticsService{
		repo:   repo,
		logger: logger,
		cache:  cacheService,
	}
}

func (s *statisticsService) GetSongStatistics(ctx context.Context, songID string) (*StatisticsReport, error) {
	var cached StatisticsReport
	if err := s.cache.Get(ctx, statsCacheKey(songID), &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "Statistics cache read failed", "song_id", songID, "error", err)
	}

	song, err := s.repo.Song().GetByIDWithQuestions(ctx, songID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song: %w", err)
	}

	report := &StatisticsReport{
		SongID:             songID,
		QuestionStatistics: []QuestionStatistics{},
	}

	// A song without questions has a valid, empty report.
	if len(song.Questions) == 0 {
		return report, nil
	}

	schema := buildSchemaIndex(song)
	questionIDs := schema.questionIDs()

	optionIDs := make([]uint, 0)
	for _, q := range schema.ordered {
		for _, opt := range q.Options {
			optionIDs = append(optionIDs, opt.ID)
		}
	}

	// Four independent reads; each query sees a consistent snapshot, and the
	// report tolerates submissions landing between them.
	var (
		participants   int64
		byQuestion     map[uint]int64
		openByQuestion map[uint]int64
		byOption       map[uint]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.repo.Answer().CountDistinctParticipants(gctx, questionIDs)
		return err
	})
	g.Go(func() error {
		var err error
		byQuestion, err = s.repo.Answer().CountByQuestion(gctx, questionIDs)
		return err
	})
	g.Go(func() error {
		var err error
		openByQuestion, err = s.repo.Answer().CountOpenByQuestion(gctx, questionIDs)
		return err
	})
	g.Go(func() error {
		if len(optionIDs) == 0 {
			return nil
		}
		var err error
		byOption, err = s.repo.Answer().CountByOption(gctx, optionIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate statistics: %w", err)
	}

	report.TotalParticipants = participants

	for _, q := range schema.ordered {
		qs := QuestionStatistics{
			QuestionID:       q.ID,
			Text:             q.Text,
			Type:             q.Type,
			TotalAnswers:     byQuestion[q.ID],
			OpenAnswerCount:  openByQuestion[q.ID],
			OptionStatistics: []OptionStatistics{},
		}
		for _, opt := range q.Options {
			qs.OptionStatistics = append(qs.OptionStatistics, OptionStatistics{
				OptionID:     opt.ID,
				OptionText:   opt.Text,
				TotalAnswers: byOption[opt.ID],
			})
		}
		report.QuestionStatistics = append(report.QuestionStatistics, qs)
	}

	if err := s.cache.Set(ctx, statsCacheKey(songID), report, statsCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "Statistics cache write failed", "song_id", songID, "error", err)
	}

	return report, nil
}

func (s *statisticsService) GetOpenAnswers(ctx context.Context, questionID uint, page, limit int) (*OpenAnswerPage, error) {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	totalItems, err := s.repo.Answer().CountOpenAnswers(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count open answers: %w", err)
	}

	result := &OpenAnswerPage{
		QuestionID:    question.ID,
		Question:      question.Text,
		OpenedAnswers: []string{},
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: totalItems,
			TotalPages: totalPages(totalItems, limit),
		},
	}

	// Non-positive page or limit yields an empty page, not an error.
	if page < 1 || limit < 1 {
		return result, nil
	}

	offset := (page - 1) * limit
	answers, err := s.repo.Answer().GetOpenAnswers(ctx, question.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get open answers: %w", err)
	}
	result.OpenedAnswers = answers

	return result, nil
}

func totalPages(totalItems int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return (totalItems + int64(limit) - 1) / int64(limit)
}
