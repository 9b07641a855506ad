package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/tunerate/feedback-service/internal/models"
	"github.com/tunerate/feedback-service/internal/repositories"
	"github.com/tunerate/feedback-service/internal/spotify"
	"github.com/tunerate/feedback-service/internal/utils"
)

type CreateSongRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	FileURL  string `json:"fileUrl" validate:"required,url"`
	Duration *int   `json:"duration" validate:"omitempty,min=1"`
}

type UpdateSongRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	FileURL *string `json:"fileUrl" validate:"omitempty,url"`
}

type SongService interface {
	CreateSong(ctx context.Context, authorID string, req *CreateSongRequest) (*models.Song, error)
	GetSong(ctx context.Context, id string) (*models.Song, error)
	GetSongWithQuestions(ctx context.Context, id string) (*models.Song, error)
	ListSongs(ctx context.Context) ([]*models.Song, error)
	UpdateSong(ctx context.Context, authorID, id string, req *UpdateSongRequest) (*models.Song, error)
	DeleteSong(ctx context.Context, authorID, id string) error
	// RegisterPlay bumps the play counter, used by the streaming frontend.
	RegisterPlay(ctx context.Context, id string) error
}

type songService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
	catalog   spotify.Client
}

func NewSongService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator, catalog spotify.Client) SongService {
	return &songService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		catalog:   catalog,
	}
}

func (s *songService) CreateSong(ctx context.Context, authorID string, req *CreateSongRequest) (*models.Song, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	author, err := s.repo.User().GetByID(ctx, authorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if author.Role != models.RoleAuthor && author.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	song := &models.Song{
		Title:    req.Title,
		FileURL:  req.FileURL,
		Duration: req.Duration,
		AuthorID: authorID,
	}

	// Catalog enrichment is best effort; a lookup failure never blocks creation.
	if track, err := s.catalog.SearchTrack(ctx, req.Title); err != nil {
		s.logger.WarnContext(ctx, "Catalog lookup failed", "title", req.Title, "error", err)
	} else if track != nil {
		if info, err := json.Marshal(track); err == nil {
			song.TrackInfo = datatypes.JSON(info)
		}
	}

	if err := s.repo.Song().Create(ctx, song); err != nil {
		return nil, NewPersistenceError("song create", err)
	}

	s.logger.InfoContext(ctx, "Song created", "song_id", song.ID, "author_id", authorID)
	return song, nil
}

func (s *songService) GetSong(ctx context.Context, id string) (*models.Song, error) {
	song, err := s.repo.Song().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

func (s *songService) GetSongWithQuestions(ctx context.Context, id string) (*models.Song, error) {
	song, err := s.repo.Song().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

func (s *songService) ListSongs(ctx context.Context) ([]*models.Song, error) {
	songs, err := s.repo.Song().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, nil
}

func (s *songService) UpdateSong(ctx context.Context, authorID, id string, req *UpdateSongRequest) (*models.Song, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	song, err := s.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}
	if song.AuthorID != authorID {
		return nil, ErrNotSongAuthor
	}

	if req.Title != nil {
		song.Title = *req.Title
	}
	if req.FileURL != nil {
		song.FileURL = *req.FileURL
	}

	if err := s.repo.Song().Update(ctx, song); err != nil {
		return nil, NewPersistenceError("song update", err)
	}
	return song, nil
}

func (s *songService) DeleteSong(ctx context.Context, authorID, id string) error {
	song, err := s.GetSong(ctx, id)
	if err != nil {
		return err
	}
	if song.AuthorID != authorID {
		return ErrNotSongAuthor
	}

	if err := s.repo.Song().Delete(ctx, id); err != nil {
		return NewPersistenceError("song delete", err)
	}
	s.logger.InfoContext(ctx, "Song deleted", "song_id", id)
	return nil
}

func (s *songService) RegisterPlay(ctx context.Context, id string) error {
	if _, err := s.GetSong(ctx, id); err != nil {
		return err
	}
	return s.repo.Song().IncrementPlayCount(ctx, id)
}
