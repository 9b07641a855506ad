package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tunerate/feedback-service/internal/utils"
)

// ExportService renders a song's statistics report as an xlsx workbook for
// authors who want the numbers outside the API.
type ExportService interface {
	ExportStatistics(ctx context.Context, songID string) (*excelize.File, error)
}

type exportService struct {
	statistics StatisticsService
	logger     utils.Logger
}

func NewExportService(statistics StatisticsService, logger utils.Logger) ExportService {
	return &exportService{
		statistics: statistics,
		logger:     logger,
	}
}

func (s *exportService) ExportStatistics(ctx context.Context, songID string) (*excelize.File, error) {
	report, err := s.statistics.GetSongStatistics(ctx, songID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Statistics"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	row := 1
	setRow := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := setRow("Song", report.SongID); err != nil {
		return nil, err
	}
	if err := setRow("Total participants", report.TotalParticipants); err != nil {
		return nil, err
	}
	row++

	headerRow := row
	if err := setRow("Question", "Type", "Total answers", "Open answers", "Option", "Option answers"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet,
		fmt.Sprintf("A%d", headerRow), fmt.Sprintf("F%d", headerRow), headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for _, q := range report.QuestionStatistics {
		if err := setRow(q.Text, string(q.Type), q.TotalAnswers, q.OpenAnswerCount, "", ""); err != nil {
			return nil, err
		}
		for _, opt := range q.OptionStatistics {
			if err := setRow("", "", "", "", opt.OptionText, opt.TotalAnswers); err != nil {
				return nil, err
			}
		}
	}

	for col, width := range map[string]float64{"A": 45, "B": 18, "C": 14, "D": 14, "E": 35, "F": 16} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "Statistics exported",
		"song_id", songID, "questions", len(report.QuestionStatistics))

	return f, nil
}
