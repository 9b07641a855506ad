package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunerate/feedback-service/internal/models"
)

type stubStatisticsService struct {
	report *StatisticsReport
	err    error
}

func (s *stubStatisticsService) GetSongStatistics(ctx context.Context, songID string) (*StatisticsReport, error) {
	return s.report, s.err
}

func (s *stubStatisticsService) GetOpenAnswers(ctx context.Context, questionID uint, page, limit int) (*OpenAnswerPage, error) {
	return nil, nil
}

func TestExportStatistics(t *testing.T) {
	stats := &stubStatisticsService{
		report: &StatisticsReport{
			SongID:            "song-1",
			TotalParticipants: 7,
			QuestionStatistics: []QuestionStatistics{
				{
					QuestionID:   1,
					Text:         "How would you rate the mix?",
					Type:         models.RatingScale,
					TotalAnswers: 7,
					OptionStatistics: []OptionStatistics{
						{OptionID: 10, OptionText: "1", TotalAnswers: 3},
						{OptionID: 11, OptionText: "2", TotalAnswers: 4},
					},
				},
				{
					QuestionID:      3,
					Text:            "Anything else?",
					Type:            models.OpenEnded,
					TotalAnswers:    5,
					OpenAnswerCount: 5,
				},
			},
		},
	}

	svc := NewExportService(stats, testLogger())

	file, err := svc.ExportStatistics(context.Background(), "song-1")
	require.NoError(t, err)
	defer file.Close()

	sheets := file.GetSheetList()
	require.Contains(t, sheets, "Statistics")

	value, err := file.GetCellValue("Statistics", "B1")
	require.NoError(t, err)
	assert.Equal(t, "song-1", value)

	value, err = file.GetCellValue("Statistics", "B2")
	require.NoError(t, err)
	assert.Equal(t, "7", value)

	value, err = file.GetCellValue("Statistics", "A5")
	require.NoError(t, err)
	assert.Equal(t, "How would you rate the mix?", value)

	value, err = file.GetCellValue("Statistics", "E6")
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	value, err = file.GetCellValue("Statistics", "A8")
	require.NoError(t, err)
	assert.Equal(t, "Anything else?", value)
}

func TestExportStatistics_PropagatesErrors(t *testing.T) {
	svc := NewExportService(&stubStatisticsService{err: ErrSongNotFound}, testLogger())

	_, err := svc.ExportStatistics(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSongNotFound)
}
