package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunerate/feedback-service/internal/services"
	"github.com/tunerate/feedback-service/internal/utils"
)

type HandlerManager struct {
	authService services.AuthService

	answerHandler   *AnswerHandler
	feedbackHandler *FeedbackHandler
	songHandler     *SongHandler
	userHandler     *UserHandler
	authHandler     *AuthHandler
	spotifyHandler  *SpotifyHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authService:     serviceManager.Auth(),
		answerHandler:   NewAnswerHandler(serviceManager.Answer(), serviceManager.Statistics(), serviceManager.Export(), logger),
		feedbackHandler: NewFeedbackHandler(serviceManager.Feedback(), validator, logger),
		songHandler:     NewSongHandler(serviceManager.Song(), logger),
		userHandler:     NewUserHandler(serviceManager.User(), logger),
		authHandler:     NewAuthHandler(serviceManager.Auth(), serviceManager.User(), logger),
		spotifyHandler:  NewSpotifyHandler(serviceManager.Catalog(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "feedback-service",
		})
	})

	v1 := router.Group("/api/v1")

	// Public auth endpoints
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/login", hm.authHandler.Login)
	}

	// Everything else requires a valid token
	protected := v1.Group("")
	protected.Use(AuthMiddleware(hm.authService))
	{
		answers := protected.Group("/answers")
		{
			answers.POST("", hm.answerHandler.SubmitAnswers)
			answers.GET("/statistic/:songId", hm.answerHandler.GetStatistics)
			answers.GET("/statistic/:songId/export", hm.answerHandler.ExportStatistics)
			answers.GET("/opened-answers/:questionId", hm.answerHandler.GetOpenedAnswers)
		}

		feedback := protected.Group("/feedback")
		{
			feedback.POST("", hm.feedbackHandler.CreateFeedback)
			feedback.GET("/songs/:songId", hm.feedbackHandler.GetFeedback)
			feedback.DELETE("/songs/:songId", hm.feedbackHandler.DeleteFeedback)
			feedback.GET("/songs/:songId/opened-questions", hm.feedbackHandler.GetOpenedQuestions)
			feedback.POST("/songs/:songId/questions", hm.feedbackHandler.AddQuestions)
			feedback.DELETE("/songs/:songId/questions", hm.feedbackHandler.DeleteQuestions)
			feedback.PATCH("/questions/:questionId", hm.feedbackHandler.UpdateQuestion)
			feedback.POST("/questions/:questionId/options", hm.feedbackHandler.AddOptions)
			feedback.DELETE("/questions/:questionId/options", hm.feedbackHandler.DeleteOptions)
			feedback.PATCH("/options/:optionId", hm.feedbackHandler.UpdateOption)
		}

		songs := protected.Group("/songs")
		{
			songs.POST("", hm.songHandler.CreateSong)
			songs.GET("", hm.songHandler.ListSongs)
			songs.GET("/:id", hm.songHandler.GetSong)
			songs.GET("/:id/questions", hm.songHandler.GetSongWithQuestions)
			songs.PATCH("/:id", hm.songHandler.UpdateSong)
			songs.DELETE("/:id", hm.songHandler.DeleteSong)
			songs.POST("/:id/play", hm.songHandler.RegisterPlay)
		}

		users := protected.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PATCH("/me", hm.userHandler.UpdateUser)
			users.DELETE("/me", hm.userHandler.DeleteUser)
		}

		protected.GET("/spotify/featured", hm.spotifyHandler.GetFeaturedPlaylists)
	}
}
