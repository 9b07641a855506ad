package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/utils"
)

func newFeedbackServiceForTest(repo *mockRepository) FeedbackService {
	return NewFeedbackService(repo, testLogger(), utils.NewValidator())
}

func testSongRow() *models.Song {
	return &models.Song{ID: "song-1", Title: "Midnight Static", AuthorID: "author-1", FileURL: "https://cdn.example/s.mp3"}
}

func TestCreateFeedback(t *testing.T) {
	req := &CreateFeedbackRequest{
		SongID: "song-1",
		Questions: []QuestionInput{
			{Text: "Rate it", Type: models.RatingScale, Options: []string{"1", "2", "3"}},
			{Text: "Anything else?", Type: models.OpenEnded},
		},
	}

	t.Run("success", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)
		repo.question.On("CountBySong", mock.Anything, "song-1").Return(int64(0), nil)

		var created []*models.Question
		repo.question.On("CreateBatch", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).([]*models.Question)
			}).
			Return(nil)

		questions, err := svc.CreateFeedback(context.Background(), "author-1", req)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		require.Len(t, created, 2)
		assert.Len(t, created[0].Options, 3)
		assert.Empty(t, created[1].Options)
	})

	t.Run("already exists", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)
		repo.question.On("CountBySong", mock.Anything, "song-1").Return(int64(2), nil)

		_, err := svc.CreateFeedback(context.Background(), "author-1", req)
		assert.ErrorIs(t, err, ErrFeedbackExists)
		assert.True(t, IsConflict(err))
	})

	t.Run("not the author", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)

		_, err := svc.CreateFeedback(context.Background(), "someone-else", req)
		assert.ErrorIs(t, err, ErrNotSongAuthor)
	})

	t.Run("song not found", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.CreateFeedback(context.Background(), "author-1", req)
		assert.ErrorIs(t, err, ErrSongNotFound)
	})

	t.Run("choice question without options", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)
		repo.question.On("CountBySong", mock.Anything, "song-1").Return(int64(0), nil)

		bad := &CreateFeedbackRequest{
			SongID:    "song-1",
			Questions: []QuestionInput{{Text: "Pick one", Type: models.SingleChoice}},
		}
		_, err := svc.CreateFeedback(context.Background(), "author-1", bad)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("open ended with options", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)
		repo.question.On("CountBySong", mock.Anything, "song-1").Return(int64(0), nil)

		bad := &CreateFeedbackRequest{
			SongID:    "song-1",
			Questions: []QuestionInput{{Text: "Thoughts?", Type: models.OpenEnded, Options: []string{"yes"}}},
		}
		_, err := svc.CreateFeedback(context.Background(), "author-1", bad)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestGetOpenedQuestions(t *testing.T) {
	t.Run("filters to open ended", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)
		repo.question.On("GetBySong", mock.Anything, "song-1").Return([]*models.Question{
			{ID: 1, Type: models.RatingScale},
			{ID: 2, Type: models.OpenEnded},
			{ID: 3, Type: models.OpenEnded},
		}, nil)

		opened, err := svc.GetOpenedQuestions(context.Background(), "song-1")
		require.NoError(t, err)
		require.Len(t, opened, 2)
		assert.Equal(t, uint(2), opened[0].ID)
		assert.Equal(t, uint(3), opened[1].ID)
	})

	t.Run("none opened", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)
		repo.question.On("GetBySong", mock.Anything, "song-1").Return([]*models.Question{
			{ID: 1, Type: models.YesNo},
		}, nil)

		_, err := svc.GetOpenedQuestions(context.Background(), "song-1")
		assert.ErrorIs(t, err, ErrNoOpenedQuestions)
	})
}

func TestAddOptions(t *testing.T) {
	t.Run("rejects open ended target", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		repo.question.On("GetByID", mock.Anything, uint(3)).
			Return(&models.Question{ID: 3, Type: models.OpenEnded, SongID: "song-1"}, nil)
		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)

		_, err := svc.AddOptions(context.Background(), "author-1", 3, &AddOptionsRequest{Options: []string{"x"}})
		assert.ErrorIs(t, err, ErrValidationFailed)
		repo.question.AssertNotCalled(t, "CreateOptions", mock.Anything, mock.Anything)
	})

	t.Run("appends to choice question", func(t *testing.T) {
		repo := newMockRepository()
		svc := newFeedbackServiceForTest(repo)

		question := &models.Question{ID: 1, Type: models.MultipleChoice, SongID: "song-1"}
		repo.question.On("GetByID", mock.Anything, uint(1)).Return(question, nil)
		repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)
		repo.question.On("CreateOptions", mock.Anything, mock.MatchedBy(func(opts []*models.QuestionOption) bool {
			return len(opts) == 2 && opts[0].QuestionID == 1
		})).Return(nil)

		_, err := svc.AddOptions(context.Background(), "author-1", 1, &AddOptionsRequest{Options: []string{"Verse", "Outro"}})
		require.NoError(t, err)
		repo.assertExpectations(t)
	})
}

func TestDeleteOptions_ForeignOption(t *testing.T) {
	repo := newMockRepository()
	svc := newFeedbackServiceForTest(repo)

	question := &models.Question{ID: 1, Type: models.SingleChoice, SongID: "song-1",
		Options: []models.QuestionOption{{ID: 10}, {ID: 11}}}
	repo.question.On("GetByID", mock.Anything, uint(1)).Return(question, nil)
	repo.song.On("GetByID", mock.Anything, "song-1").Return(testSongRow(), nil)

	err := svc.DeleteOptions(context.Background(), "author-1", 1, []uint{10, 99})
	assert.ErrorIs(t, err, ErrOptionNotFound)
	repo.question.AssertNotCalled(t, "DeleteOptions", mock.Anything, mock.Anything)
}
