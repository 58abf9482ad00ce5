package service

import (
	"context"
	"strings"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/pkg/slug"
)

const maxGenreName = 50

type GenreService interface {
	List(ctx context.Context, actor policy.Actor, q dto.SearchQuery) ([]models.Genre, int64, error)
	Get(ctx context.Context, actor policy.Actor, slug string) (*models.Genre, error)
	Create(ctx context.Context, actor policy.Actor, req dto.GenreRequest) (*models.Genre, error)
	Update(ctx context.Context, actor policy.Actor, slug string, req dto.UpdateGenreRequest) (*models.Genre, error)
	Delete(ctx context.Context, actor policy.Actor, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(r repository.GenreRepository) GenreService {
	return &genreService{repo: r}
}

func (s *genreService) List(ctx context.Context, actor policy.Actor, q dto.SearchQuery) ([]models.Genre, int64, error) {
	if err := policy.Authorize(actor, policy.ActionList, policy.On(policy.ResourceGenre)); err != nil {
		return nil, 0, err
	}
	page := q.PageQuery.Normalize()
	return s.repo.List(ctx, strings.TrimSpace(q.Search), page.Page, page.PageSize)
}

func (s *genreService) Get(ctx context.Context, actor policy.Actor, value string) (*models.Genre, error) {
	if err := policy.Authorize(actor, policy.ActionRetrieve, policy.On(policy.ResourceGenre)); err != nil {
		return nil, err
	}
	return s.repo.GetBySlug(ctx, value)
}

func (s *genreService) Create(ctx context.Context, actor policy.Actor, req dto.GenreRequest) (*models.Genre, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.On(policy.ResourceGenre)); err != nil {
		return nil, err
	}
	g := &models.Genre{Name: strings.TrimSpace(req.Name), Slug: req.Slug}
	if g.Slug == "" {
		g.Slug = slug.From(g.Name)
	}
	if err := validateNamed(g.Name, maxGenreName, g.Slug); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *genreService) Update(ctx context.Context, actor policy.Actor, value string, req dto.UpdateGenreRequest) (*models.Genre, error) {
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.On(policy.ResourceGenre)); err != nil {
		return nil, err
	}
	g, err := s.repo.GetBySlug(ctx, value)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		g.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		g.Slug = *req.Slug
	}
	if err := validateNamed(g.Name, maxGenreName, g.Slug); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *genreService) Delete(ctx context.Context, actor policy.Actor, value string) error {
	if err := policy.Authorize(actor, policy.ActionDelete, policy.On(policy.ResourceGenre)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, value)
}
