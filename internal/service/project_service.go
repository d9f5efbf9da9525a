package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/projects-backend/internal/domain"
	"github.com/spec-kit/projects-backend/internal/persistence"
	"github.com/spec-kit/projects-backend/internal/repository"
	apperrors "github.com/spec-kit/projects-backend/pkg/util/errorutil"
)

const (
	defaultImageURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d1/Image_not_available.png/800px-Image_not_available.png?20210219185637"
	defaultLiveLink = "not defined"

	projectListCacheKey = "projects:list"
	projectListCacheTTL = 30 * time.Second
)

// ProjectService manages project records with a read-through Redis cache on
// the listing.
type ProjectService struct {
	projects repository.ProjectRepository
	cache    *persistence.Redis
	logger   *zap.Logger
}

// NewProjectService builds the service. A nil cache disables caching.
func NewProjectService(projects repository.ProjectRepository, cache *persistence.Redis, logger *zap.Logger) *ProjectService {
	return &ProjectService{projects: projects, cache: cache, logger: logger}
}

// NewProjectInput carries the fields accepted for a new project.
type NewProjectInput struct {
	Title       string
	Description string
	ImageURL    string
	GithubURL   string
	LiveLink    string
}

// Add stores a new project record, filling placeholder defaults for the
// optional fields, and invalidates the listing cache.
func (s *ProjectService) Add(ctx context.Context, input NewProjectInput) error {
	if input.ImageURL == "" {
		input.ImageURL = defaultImageURL
	}
	if input.LiveLink == "" {
		input.LiveLink = defaultLiveLink
	}

	project := &domain.Project{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		GithubURL:   input.GithubURL,
		LiveLink:    input.LiveLink,
	}
	if err := s.projects.Insert(ctx, project); err != nil {
		return apperrors.NewInternalError(err)
	}

	if s.cacheable() {
		if err := s.cache.Client.Del(ctx, projectListCacheKey).Err(); err != nil {
			s.logger.Warn("failed to invalidate project cache", zap.Error(err))
		}
	}
	return nil
}

// List returns all project records, newest first. Cache failures fall back
// to the database.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	if s.cacheable() {
		cached, err := s.cache.Client.Get(ctx, projectListCacheKey).Bytes()
		if err == nil {
			var projects []domain.Project
			if jsonErr := json.Unmarshal(cached, &projects); jsonErr == nil {
				return projects, nil
			}
		}
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.cacheable() {
		if encoded, err := json.Marshal(projects); err == nil {
			if err := s.cache.Client.Set(ctx, projectListCacheKey, encoded, projectListCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache project list", zap.Error(err))
			}
		}
	}
	return projects, nil
}

func (s *ProjectService) cacheable() bool {
	return s.cache != nil && s.cache.Client != nil
}
