package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunerate/feedback-service/internal/services"
	"github.com/tunerate/feedback-service/internal/utils"
)

type SongHandler struct {
	BaseHandler
	songService services.SongService
}

func NewSongHandler(songService services.SongService, logger utils.Logger) *SongHandler {
	return &SongHandler{
		BaseHandler: NewBaseHandler(logger),
		songService: songService,
	}
}

// CreateSong registers a new song
// @Summary Create song
// @Tags songs
// @Accept json
// @Produce json
// @Param song body services.CreateSongRequest true "Song data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /songs [post]
func (h *SongHandler) CreateSong(c *gin.Context) {
	var req services.CreateSongRequest
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

	h.LogRequest(c, "Creating song", "title", req.Title)

	song, err := h.songService.CreateSong(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Song created successfully",
		Data:    song,
	})
}

// GetSong returns one song
// @Summary Get song
// @Tags songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /songs/{id} [get]
func (h *SongHandler) GetSong(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	song, err := h.songService.GetSong(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Song retrieved successfully",
		Data:    song,
	})
}

// GetSongWithQuestions returns a song with its questionnaire preloaded
// @Summary Get song with questions
// @Tags songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /songs/{id}/questions [get]
func (h *SongHandler) GetSongWithQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	song, err := h.songService.GetSongWithQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Song retrieved successfully",
		Data:    song,
	})
}

// ListSongs returns all songs
// @Summary List songs
// @Tags songs
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /songs [get]
func (h *SongHandler) ListSongs(c *gin.Context) {
	songs, err := h.songService.ListSongs(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Songs retrieved successfully",
		Data:    songs,
	})
}

// UpdateSong changes a song's metadata
// @Summary Update song
// @Tags songs
// @Accept json
// @Produce json
// @Param id path string true "Song ID"
// @Param song body services.UpdateSongRequest true "Song data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /songs/{id} [patch]
func (h *SongHandler) UpdateSong(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateSongRequest
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

	song, err := h.songService.UpdateSong(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Song updated successfully",
		Data:    song,
	})
}

// DeleteSong removes a song
// @Summary Delete song
// @Tags songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse
// @Router /songs/{id} [delete]
func (h *SongHandler) DeleteSong(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.songService.DeleteSong(c.Request.Context(), userID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Song deleted successfully",
	})
}

// RegisterPlay bumps a song's play counter
// @Summary Register play
// @Tags songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /songs/{id}/play [post]
func (h *SongHandler) RegisterPlay(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.songService.RegisterPlay(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Play registered",
	})
}
