package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tunerate/feedback-service/internal/models"
)

func newStatisticsServiceForTest(repo *mockRepository) (StatisticsService, *memoryCache) {
	cacheSvc := newMemoryCache()
	return NewStatisticsService(repo, testLogger(), cacheSvc), cacheSvc
}

func TestGetSongStatistics_FullEnumeration(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newStatisticsServiceForTest(repo)

	repo.song.On("GetByIDWithQuestions", mock.Anything, "song-1").Return(testSong(), nil)
	repo.answer.On("CountDistinctParticipants", mock.Anything, []uint{1, 2, 3, 4}).
		Return(int64(7), nil)
	// Question 4 and options 12, 21, 22, 40, 41 have no rows; they must still
	// appear in the report with zero counts.
	repo.answer.On("CountByQuestion", mock.Anything, []uint{1, 2, 3, 4}).
		Return(map[uint]int64{1: 7, 2: 12, 3: 5}, nil)
	repo.answer.On("CountOpenByQuestion", mock.Anything, []uint{1, 2, 3, 4}).
		Return(map[uint]int64{3: 5}, nil)
	repo.answer.On("CountByOption", mock.Anything, []uint{10, 11, 12, 20, 21, 22, 40, 41}).
		Return(map[uint]int64{10: 3, 11: 4, 20: 12}, nil)

	report, err := svc.GetSongStatistics(context.Background(), "song-1")
	require.NoError(t, err)

	assert.Equal(t, "song-1", report.SongID)
	assert.Equal(t, int64(7), report.TotalParticipants)
	require.Len(t, report.QuestionStatistics, 4)

	// Ascending question id order.
	for i, q := range report.QuestionStatistics {
		assert.Equal(t, uint(i+1), q.QuestionID)
	}

	q1 := report.QuestionStatistics[0]
	assert.Equal(t, models.RatingScale, q1.Type)
	assert.Equal(t, int64(7), q1.TotalAnswers)
	require.Len(t, q1.OptionStatistics, 3)
	assert.Equal(t, int64(3), q1.OptionStatistics[0].TotalAnswers)
	assert.Equal(t, int64(4), q1.OptionStatistics[1].TotalAnswers)
	assert.Equal(t, int64(0), q1.OptionStatistics[2].TotalAnswers)

	q3 := report.QuestionStatistics[2]
	assert.Equal(t, int64(5), q3.OpenAnswerCount)
	assert.Empty(t, q3.OptionStatistics)

	q4 := report.QuestionStatistics[3]
	assert.Equal(t, int64(0), q4.TotalAnswers)
	require.Len(t, q4.OptionStatistics, 2)
	assert.Equal(t, int64(0), q4.OptionStatistics[0].TotalAnswers)

	repo.assertExpectations(t)
}

func TestGetSongStatistics_EmptySchema(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newStatisticsServiceForTest(repo)

	repo.song.On("GetByIDWithQuestions", mock.Anything, "bare").
		Return(&models.Song{ID: "bare"}, nil)

	report, err := svc.GetSongStatistics(context.Background(), "bare")
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.TotalParticipants)
	assert.Empty(t, report.QuestionStatistics)

	repo.answer.AssertNotCalled(t, "CountDistinctParticipants", mock.Anything, mock.Anything)
}

func TestGetSongStatistics_SongNotFound(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newStatisticsServiceForTest(repo)

	repo.song.On("GetByIDWithQuestions", mock.Anything, "missing").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetSongStatistics(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSongNotFound)
}

func TestGetSongStatistics_CachedRead(t *testing.T) {
	repo := newMockRepository()
	svc, cacheSvc := newStatisticsServiceForTest(repo)

	repo.song.On("GetByIDWithQuestions", mock.Anything, "song-1").Return(testSong(), nil).Once()
	repo.answer.On("CountDistinctParticipants", mock.Anything, mock.Anything).Return(int64(2), nil).Once()
	repo.answer.On("CountByQuestion", mock.Anything, mock.Anything).Return(map[uint]int64{}, nil).Once()
	repo.answer.On("CountOpenByQuestion", mock.Anything, mock.Anything).Return(map[uint]int64{}, nil).Once()
	repo.answer.On("CountByOption", mock.Anything, mock.Anything).Return(map[uint]int64{}, nil).Once()

	first, err := svc.GetSongStatistics(context.Background(), "song-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cacheSvc.sets)

	// Second read is served from cache; the Once() expectations would fail on a
	// repeat repository hit.
	second, err := svc.GetSongStatistics(context.Background(), "song-1")
	require.NoError(t, err)
	assert.Equal(t, first.TotalParticipants, second.TotalParticipants)
	assert.Len(t, second.QuestionStatistics, len(first.QuestionStatistics))

	repo.assertExpectations(t)
}

func TestGetOpenAnswers_Pagination(t *testing.T) {
	question := &models.Question{ID: 3, Text: "Anything else?", Type: models.OpenEnded, SongID: "song-1"}

	t.Run("single page", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newStatisticsServiceForTest(repo)

		repo.question.On("GetByID", mock.Anything, uint(3)).Return(question, nil)
		repo.answer.On("CountOpenAnswers", mock.Anything, uint(3)).Return(int64(1), nil)
		repo.answer.On("GetOpenAnswers", mock.Anything, uint(3), 10, 0).
			Return([]string{"solid production"}, nil)

		page, err := svc.GetOpenAnswers(context.Background(), 3, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "Anything else?", page.Question)
		assert.Equal(t, []string{"solid production"}, page.OpenedAnswers)
		assert.Equal(t, int64(1), page.Pagination.TotalItems)
		assert.Equal(t, int64(1), page.Pagination.TotalPages)
	})

	t.Run("last partial page", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newStatisticsServiceForTest(repo)

		tail := []string{"a", "b", "c", "d", "e"}
		repo.question.On("GetByID", mock.Anything, uint(3)).Return(question, nil)
		repo.answer.On("CountOpenAnswers", mock.Anything, uint(3)).Return(int64(25), nil)
		repo.answer.On("GetOpenAnswers", mock.Anything, uint(3), 10, 20).Return(tail, nil)

		page, err := svc.GetOpenAnswers(context.Background(), 3, 3, 10)
		require.NoError(t, err)
		assert.Len(t, page.OpenedAnswers, 5)
		assert.Equal(t, int64(25), page.Pagination.TotalItems)
		assert.Equal(t, int64(3), page.Pagination.TotalPages)
	})

	t.Run("page past the end", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newStatisticsServiceForTest(repo)

		repo.question.On("GetByID", mock.Anything, uint(3)).Return(question, nil)
		repo.answer.On("CountOpenAnswers", mock.Anything, uint(3)).Return(int64(4), nil)
		repo.answer.On("GetOpenAnswers", mock.Anything, uint(3), 10, 10).Return([]string{}, nil)

		page, err := svc.GetOpenAnswers(context.Background(), 3, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, page.OpenedAnswers)
		assert.Equal(t, int64(1), page.Pagination.TotalPages)
	})

	t.Run("non positive page and limit", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newStatisticsServiceForTest(repo)

		repo.question.On("GetByID", mock.Anything, uint(3)).Return(question, nil)
		repo.answer.On("CountOpenAnswers", mock.Anything, uint(3)).Return(int64(4), nil)

		page, err := svc.GetOpenAnswers(context.Background(), 3, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, "Anything else?", page.Question)
		assert.Empty(t, page.OpenedAnswers)
		assert.Equal(t, int64(0), page.Pagination.TotalPages)

		repo.answer.AssertNotCalled(t, "GetOpenAnswers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("question not found", func(t *testing.T) {
		repo := newMockRepository()
		svc, _ := newStatisticsServiceForTest(repo)

		repo.question.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetOpenAnswers(context.Background(), 99, 1, 10)
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})
}
