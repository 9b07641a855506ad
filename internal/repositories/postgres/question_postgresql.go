package postgres

import (
	"context"

	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.id ASC")
		}).
		First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetBySong(ctx context.Context, songID string) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("song_id = ?", songID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.id ASC")
		}).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) CountBySong(ctx context.Context, songID string) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("song_id = ?", songID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Create(questions).Error
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Save(question).Error
}

func (q *QuestionPostgreSQL) DeleteBatch(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Delete(&models.Question{}, ids).Error
}

func (q *QuestionPostgreSQL) GetOption(ctx context.Context, id uint) (*models.QuestionOption, error) {
	var option models.QuestionOption
	if err := q.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (q *QuestionPostgreSQL) CreateOptions(ctx context.Context, options []*models.QuestionOption) error {
	if len(options) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Create(options).Error
}

func (q *QuestionPostgreSQL) UpdateOption(ctx context.Context, option *models.QuestionOption) error {
	return q.db.WithContext(ctx).Save(option).Error
}

func (q *QuestionPostgreSQL) DeleteOptions(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Delete(&models.QuestionOption{}, ids).Error
}
