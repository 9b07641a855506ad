package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunerate/feedback-service/internal/services"
	"github.com/tunerate/feedback-service/internal/utils"
)

type DeleteQuestionsRequest struct {
	QuestionIDs []uint `json:"questionIds" validate:"required,min=1"`
}

type DeleteOptionsRequest struct {
	OptionIDs []uint `json:"optionIds" validate:"required,min=1"`
}

type FeedbackHandler struct {
	BaseHandler
	feedbackService services.FeedbackService
	validator       *utils.Validator
}

func NewFeedbackHandler(
	feedbackService services.FeedbackService,
	validator *utils.Validator,
	logger utils.Logger,
) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		feedbackService: feedbackService,
		validator:       validator,
	}
}

// CreateFeedback creates a song's questionnaire
// @Summary Create feedback
// @Description Creates the full questionnaire for a song; fails if one already exists
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body services.CreateFeedbackRequest true "Questionnaire data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req services.CreateFeedbackRequest
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

	h.LogRequest(c, "Creating feedback", "song_id", req.SongID)

	questions, err := h.feedbackService.CreateFeedback(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Feedback created successfully",
		Data:    questions,
	})
}

// GetFeedback returns a song's questionnaire
// @Summary Get feedback
// @Tags feedback
// @Produce json
// @Param songId path string true "Song ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/songs/{songId} [get]
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	songID := ParseStringIDParam(c, "songId")
	if songID == "" {
		return
	}

	questions, err := h.feedbackService.GetFeedback(c.Request.Context(), songID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Feedback retrieved successfully",
		Data:    questions,
	})
}

// DeleteFeedback removes a song's entire questionnaire
// @Summary Delete feedback
// @Tags feedback
// @Produce json
// @Param songId path string true "Song ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/songs/{songId} [delete]
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	songID := ParseStringIDParam(c, "songId")
	if songID == "" {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), userID, songID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Feedback deleted successfully",
	})
}

// AddQuestions appends questions to an existing questionnaire
// @Summary Add questions
// @Tags feedback
// @Accept json
// @Produce json
// @Param songId path string true "Song ID"
// @Param questions body services.AddQuestionsRequest true "Questions"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /feedback/songs/{songId}/questions [post]
func (h *FeedbackHandler) AddQuestions(c *gin.Context) {
	songID := ParseStringIDParam(c, "songId")
	if songID == "" {
		return
	}

	var req services.AddQuestionsRequest
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

	questions, err := h.feedbackService.AddQuestions(c.Request.Context(), userID, songID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Questions added successfully",
		Data:    questions,
	})
}

// UpdateQuestion changes a question's text
// @Summary Update question
// @Tags feedback
// @Accept json
// @Produce json
// @Param questionId path uint true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Question data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/questions/{questionId} [patch]
func (h *FeedbackHandler) UpdateQuestion(c *gin.Context) {
	questionID := ParseUintIDParam(c, "questionId")
	if questionID == 0 {
		return
	}

	var req services.UpdateQuestionRequest
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

	question, err := h.feedbackService.UpdateQuestion(c.Request.Context(), userID, questionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Question updated successfully",
		Data:    question,
	})
}

// DeleteQuestions removes questions from a questionnaire
// @Summary Delete questions
// @Tags feedback
// @Accept json
// @Produce json
// @Param songId path string true "Song ID"
// @Param questions body DeleteQuestionsRequest true "Question IDs"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/songs/{songId}/questions [delete]
func (h *FeedbackHandler) DeleteQuestions(c *gin.Context) {
	songID := ParseStringIDParam(c, "songId")
	if songID == "" {
		return
	}

	var req DeleteQuestionsRequest
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

	if err := h.feedbackService.DeleteQuestions(c.Request.Context(), userID, songID, req.QuestionIDs); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Questions deleted successfully",
	})
}

// AddOptions appends options to an option-bearing question
// @Summary Add options
// @Tags feedback
// @Accept json
// @Produce json
// @Param questionId path uint true "Question ID"
// @Param options body services.AddOptionsRequest true "Option texts"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/questions/{questionId}/options [post]
func (h *FeedbackHandler) AddOptions(c *gin.Context) {
	questionID := ParseUintIDParam(c, "questionId")
	if questionID == 0 {
		return
	}

	var req services.AddOptionsRequest
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

	question, err := h.feedbackService.AddOptions(c.Request.Context(), userID, questionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Options added successfully",
		Data:    question,
	})
}

// UpdateOption changes an option's text
// @Summary Update option
// @Tags feedback
// @Accept json
// @Produce json
// @Param optionId path uint true "Option ID"
// @Param option body services.UpdateOptionRequest true "Option data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/options/{optionId} [patch]
func (h *FeedbackHandler) UpdateOption(c *gin.Context) {
	optionID := ParseUintIDParam(c, "optionId")
	if optionID == 0 {
		return
	}

	var req services.UpdateOptionRequest
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

	option, err := h.feedbackService.UpdateOption(c.Request.Context(), userID, optionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Option updated successfully",
		Data:    option,
	})
}

// DeleteOptions removes options from a question
// @Summary Delete options
// @Tags feedback
// @Accept json
// @Produce json
// @Param questionId path uint true "Question ID"
// @Param options body DeleteOptionsRequest true "Option IDs"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/questions/{questionId}/options [delete]
func (h *FeedbackHandler) DeleteOptions(c *gin.Context) {
	questionID := ParseUintIDParam(c, "questionId")
	if questionID == 0 {
		return
	}

	var req DeleteOptionsRequest
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

	if err := h.feedbackService.DeleteOptions(c.Request.Context(), userID, questionID, req.OptionIDs); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Options deleted successfully",
	})
}

// GetOpenedQuestions lists a song's OPEN_ENDED questions
// @Summary Get opened questions
// @Tags feedback
// @Produce json
// @Param songId path string true "Song ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /feedback/songs/{songId}/opened-questions [get]
func (h *FeedbackHandler) GetOpenedQuestions(c *gin.Context) {
	songID := ParseStringIDParam(c, "songId")
	if songID == "" {
		return
	}

	questions, err := h.feedbackService.GetOpenedQuestions(c.Request.Context(), songID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Opened questions retrieved successfully",
		Data:    questions,
	})
}
