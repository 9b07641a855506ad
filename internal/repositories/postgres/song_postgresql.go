package postgres

import (
	"context"

	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type SongPostgreSQL struct {
	db *gorm.DB
}

func NewSongPostgreSQL(db *gorm.DB) repositories.SongRepository {
	return &SongPostgreSQL{db: db}
}

func (s *SongPostgreSQL) Create(ctx context.Context, song *models.Song) error {
	return s.db.WithContext(ctx).Create(song).Error
}

func (s *SongPostgreSQL) GetByID(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	if err := s.db.WithContext(ctx).First(&song, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *SongPostgreSQL) GetByIDWithQuestions(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	if err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.id ASC")
		}).
		First(&song, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *SongPostgreSQL) List(ctx context.Context) ([]*models.Song, error) {
	var songs []*models.Song
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Order("created_at ASC").
		Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

func (s *SongPostgreSQL) Update(ctx context.Context, song *models.Song) error {
	return s.db.WithContext(ctx).Save(song).Error
}

func (s *SongPostgreSQL) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Song{}, "id = ?", id).Error
}

func (s *SongPostgreSQL) IncrementPlayCount(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.Song{}).
		Where("id = ?", id).
		Update("play_count", gorm.Expr("play_count + 1")).Error
}
