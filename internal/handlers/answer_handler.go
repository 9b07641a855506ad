package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunerate/feedback-service/internal/services"
	"github.com/tunerate/feedback-service/internal/utils"
)

type AnswerHandler struct {
	BaseHandler
	answerService     services.AnswerService
	statisticsService services.StatisticsService
	exportService     services.ExportService
}

func NewAnswerHandler(
	answerService services.AnswerService,
	statisticsService services.StatisticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *AnswerHandler {
	return &AnswerHandler{
		BaseHandler:       NewBaseHandler(logger),
		answerService:     answerService,
		statisticsService: statisticsService,
		exportService:     exportService,
	}
}

// SubmitAnswers accepts a full questionnaire submission
// @Summary Submit answers
// @Description Submits one answer per question of a song's questionnaire; all or nothing
// @Tags answers
// @Accept json
// @Produce json
// @Param submission body services.SubmitAnswersRequest true "Submission data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /answers [post]
func (h *AnswerHandler) SubmitAnswers(c *gin.Context) {
	var req services.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
			Code:    "VALIDATION_FAILED",
		})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	// The caller answers as themselves; the body's userId is not trusted.
	req.UserID = userID

	h.LogRequest(c, "Submitting answers", "song_id", req.SongID)

	if err := h.answerService.Submit(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Answers submitted successfully",
	})
}

// GetStatistics returns the aggregated report for a song
// @Summary Get song statistics
// @Description Returns per-question and per-option answer counts plus participant total
// @Tags answers
// @Produce json
// @Param songId path string true "Song ID"
// @Success 200 {object} SuccessResponse{data=services.StatisticsReport}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /answers/statistic/{songId} [get]
func (h *AnswerHandler) GetStatistics(c *gin.Context) {
	songID := ParseStringIDParam(c, "songId")
	if songID == "" {
		return
	}

	report, err := h.statisticsService.GetSongStatistics(c.Request.Context(), songID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Statistics retrieved successfully",
		Data:    report,
	})
}

// ExportStatistics streams the statistics report as an xlsx workbook
// @Summary Export song statistics
// @Description Renders the statistics report as a downloadable spreadsheet
// @Tags answers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param songId path string true "Song ID"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /answers/statistic/{songId}/export [get]
func (h *AnswerHandler) ExportStatistics(c *gin.Context) {
	songID := ParseStringIDParam(c, "songId")
	if songID == "" {
		return
	}

	file, err := h.exportService.ExportStatistics(c.Request.Context(), songID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("statistics-%s.xlsx", songID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		h.LogError(c, err, "Failed to stream export")
	}
}

// GetOpenedAnswers returns one page of free-text answers for a question
// @Summary Get opened answers
// @Description Returns free-text answers for an OPEN_ENDED question, oldest first
// @Tags answers
// @Produce json
// @Param questionId path uint true "Question ID"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} SuccessResponse{data=services.OpenAnswerPage}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /answers/opened-answers/{questionId} [get]
func (h *AnswerHandler) GetOpenedAnswers(c *gin.Context) {
	questionID := ParseUintIDParam(c, "questionId")
	if questionID == 0 {
		return
	}

	page := ParseIntQuery(c, "page", 1)
	limit := ParseIntQuery(c, "limit", 10)

	result, err := h.statisticsService.GetOpenAnswers(c.Request.Context(), questionID, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Opened answers retrieved successfully",
		Data:    result,
	})
}
