package postgres

import (
	"context"

	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a *AnswerPostgreSQL) CreateBatch(ctx context.Context, answers []*models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).Create(answers).Error
}

func (a *AnswerPostgreSQL) CountByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (a *AnswerPostgreSQL) CountDistinctParticipants(ctx context.Context, questionIDs []uint) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("question_id IN ?", questionIDs).
		Distinct("user_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type idCount struct {
	ID    uint  `gorm:"column:id"`
	Total int64 `gorm:"column:total"`
}

func (a *AnswerPostgreSQL) CountByQuestion(ctx context.Context, questionIDs []uint) (map[uint]int64, error) {
	if len(questionIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []idCount
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select("question_id AS id, COUNT(*) AS total").
		Where("question_id IN ?", questionIDs).
		Group("question_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (a *AnswerPostgreSQL) CountOpenByQuestion(ctx context.Context, questionIDs []uint) (map[uint]int64, error) {
	if len(questionIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []idCount
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select("question_id AS id, COUNT(*) AS total").
		Where("question_id IN ? AND opened_answer IS NOT NULL", questionIDs).
		Group("question_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (a *AnswerPostgreSQL) CountByOption(ctx context.Context, optionIDs []uint) (map[uint]int64, error) {
	if len(optionIDs) == 0 {
		return map[uint]int64{}, nil
	}
	var rows []idCount
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select("question_option_id AS id, COUNT(*) AS total").
		Where("question_option_id IN ?", optionIDs).
		Group("question_option_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (a *AnswerPostgreSQL) GetOpenAnswers(ctx context.Context, questionID uint, limit, offset int) ([]string, error) {
	var answers []string
	query := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("question_id = ? AND opened_answer IS NOT NULL", questionID).
		Order("created_at ASC, id ASC").
		Limit(limit)

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Pluck("opened_answer", &answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) CountOpenAnswers(ctx context.Context, questionID uint) (int64, error) {
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("question_id = ? AND opened_answer IS NOT NULL", questionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toCountMap(rows []idCount) map[uint]int64 {
	m := make(map[uint]int64, len(rows))
	for _, r := range rows {
		m[r.ID] = r.Total
	}
	return m
}
