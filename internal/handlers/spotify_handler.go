package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunerate/feedback-service/internal/spotify"
	"github.com/tunerate/feedback-service/internal/utils"
)

type SpotifyHandler struct {
	BaseHandler
	catalog spotify.Client
}

func NewSpotifyHandler(catalog spotify.Client, logger utils.Logger) *SpotifyHandler {
	return &SpotifyHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
	}
}

// GetFeaturedPlaylists passes through the catalog's featured playlists
// @Summary Get featured playlists
// @Tags spotify
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 502 {object} ErrorResponse
// @Router /spotify/featured [get]
func (h *SpotifyHandler) GetFeaturedPlaylists(c *gin.Context) {
	playlists, err := h.catalog.FeaturedPlaylists(c.Request.Context())
	if err != nil {
		h.LogError(c, err, "Catalog browse failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Catalog unavailable",
			Code:    "CATALOG_UNAVAILABLE",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Featured playlists retrieved successfully",
		Data:    playlists,
	})
}
