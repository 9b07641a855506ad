package postgres

import (
	"context"

	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB

	user     repositories.UserRepository
	song     repositories.SongRepository
	question repositories.QuestionRepository
	answer   repositories.AnswerRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:       db,
		user:     NewUserPostgreSQL(db),
		song:     NewSongPostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		answer:   NewAnswerPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository         { return r.user }
func (r *repository) Song() repositories.SongRepository         { return r.song }
func (r *repository) Question() repositories.QuestionRepository { return r.question }
func (r *repository) Answer() repositories.AnswerRepository     { return r.answer }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Song{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Answer{},
	)
}
