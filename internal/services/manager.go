package services

import (
	"github.com/tunerate/feedback-service/internal/cache"
	"github.com/tunerate/feedback-service/internal/events"
	"github.com/tunerate/feedback-service/internal/repositories"
	"github.com/tunerate/feedback-service/internal/spotify"
	"github.com/tunerate/feedback-service/internal/utils"
)

// ServiceManager wires the service layer together and is the single dependency
// the handler layer takes.
type ServiceManager interface {
	Answer() AnswerService
	Statistics() StatisticsService
	Export() ExportService
	Feedback() FeedbackService
	Song() SongService
	User() UserService
	Auth() AuthService
	// Catalog exposes the external catalog client for passthrough endpoints.
	Catalog() spotify.Client
}

type serviceManager struct {
	answer     AnswerService
	statistics StatisticsService
	export     ExportService
	feedback   FeedbackService
	song       SongService
	user       UserService
	auth       AuthService
	catalog    spotify.Client
}

type ManagerConfig struct {
	Repo      repositories.Repository
	Logger    utils.Logger
	Validator *utils.Validator
	Publisher events.EventPublisher
	Cache     cache.CacheService
	Catalog   spotify.Client
	JWTSecret string
}

func NewServiceManager(cfg ManagerConfig) ServiceManager {
	statistics := NewStatisticsService(cfg.Repo, cfg.Logger, cfg.Cache)

	return &serviceManager{
		answer:     NewAnswerService(cfg.Repo, cfg.Logger, cfg.Validator, cfg.Publisher, cfg.Cache),
		statistics: statistics,
		export:     NewExportService(statistics, cfg.Logger),
		feedback:   NewFeedbackService(cfg.Repo, cfg.Logger, cfg.Validator),
		song:       NewSongService(cfg.Repo, cfg.Logger, cfg.Validator, cfg.Catalog),
		user:       NewUserService(cfg.Repo, cfg.Logger, cfg.Validator),
		auth:       NewAuthService(cfg.Repo, cfg.Logger, cfg.Validator, cfg.JWTSecret),
		catalog:    cfg.Catalog,
	}
}

func (m *serviceManager) Answer() AnswerService         { return m.answer }
func (m *serviceManager) Statistics() StatisticsService { return m.statistics }
func (m *serviceManager) Export() ExportService         { return m.export }
func (m *serviceManager) Feedback() FeedbackService     { return m.feedback }
func (m *serviceManager) Song() SongService             { return m.song }
func (m *serviceManager) User() UserService             { return m.user }
func (m *serviceManager) Auth() AuthService             { return m.auth }
func (m *serviceManager) Catalog() spotify.Client       { return m.catalog }
