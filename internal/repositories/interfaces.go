package repositories

import (
	"context"
	"errors"

	"github.com/tunerate/feedback-service/internal/models"
	"gorm.io/gorm"
)

// Repository is the aggregate access point for all stores. WithTransaction runs fn
// against a Repository bound to a single database transaction; the transaction
// commits when fn returns nil and rolls back otherwise.
type Repository interface {
	User() UserRepository
	Song() SongRepository
	Question() QuestionRepository
	Answer() AnswerRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDForUpdate takes a row lock on the user. Only meaningful inside
	// WithTransaction; used by the submission guard to serialize racing submissions.
	GetByIDForUpdate(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	// IncrementTotalScore applies total_score = total_score + delta in a single statement.
	IncrementTotalScore(ctx context.Context, id string, delta int) error
}

type SongRepository interface {
	Create(ctx context.Context, song *models.Song) error
	GetByID(ctx context.Context, id string) (*models.Song, error)
	// GetByIDWithQuestions preloads the question tree with options, both ordered by id.
	GetByIDWithQuestions(ctx context.Context, id string) (*models.Song, error)
	List(ctx context.Context) ([]*models.Song, error)
	Update(ctx context.Context, song *models.Song) error
	Delete(ctx context.Context, id string) error
	IncrementPlayCount(ctx context.Context, id string) error
}

type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetBySong(ctx context.Context, songID string) ([]*models.Question, error)
	CountBySong(ctx context.Context, songID string) (int64, error)
	CreateBatch(ctx context.Context, questions []*models.Question) error
	Update(ctx context.Context, question *models.Question) error
	DeleteBatch(ctx context.Context, ids []uint) error

	GetOption(ctx context.Context, id uint) (*models.QuestionOption, error)
	CreateOptions(ctx context.Context, options []*models.QuestionOption) error
	UpdateOption(ctx context.Context, option *models.QuestionOption) error
	DeleteOptions(ctx context.Context, ids []uint) error
}

type AnswerRepository interface {
	// CreateBatch inserts the normalized answer rows of one submission as one statement.
	CreateBatch(ctx context.Context, answers []*models.Answer) error
	// CountByUserAndQuestions counts existing rows for the uniqueness check.
	CountByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) (int64, error)

	// Aggregate reads for the statistics report. The maps only contain ids with at
	// least one row; absent ids mean zero.
	CountDistinctParticipants(ctx context.Context, questionIDs []uint) (int64, error)
	CountByQuestion(ctx context.Context, questionIDs []uint) (map[uint]int64, error)
	CountOpenByQuestion(ctx context.Context, questionIDs []uint) (map[uint]int64, error)
	CountByOption(ctx context.Context, optionIDs []uint) (map[uint]int64, error)

	// Paginated open-text reads, oldest first (created_at, id as tiebreak).
	GetOpenAnswers(ctx context.Context, questionID uint, limit, offset int) ([]string, error)
	CountOpenAnswers(ctx context.Context, questionID uint) (int64, error)
}

// IsNotFoundError reports whether err is the storage layer's record-not-found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
