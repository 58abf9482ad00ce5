package service

import (
	"context"
	"strings"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/validation"
	"reviewhub/pkg/slug"
)

const maxCategoryName = 256

type CategoryService interface {
	List(ctx context.Context, actor policy.Actor, q dto.SearchQuery) ([]models.Category, int64, error)
	Get(ctx context.Context, actor policy.Actor, slug string) (*models.Category, error)
	Create(ctx context.Context, actor policy.Actor, req dto.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, actor policy.Actor, slug string, req dto.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, actor policy.Actor, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, actor policy.Actor, q dto.SearchQuery) ([]models.Category, int64, error) {
	if err := policy.Authorize(actor, policy.ActionList, policy.On(policy.ResourceCategory)); err != nil {
		return nil, 0, err
	}
	page := q.PageQuery.Normalize()
	return s.repo.List(ctx, strings.TrimSpace(q.Search), page.Page, page.PageSize)
}

func (s *categoryService) Get(ctx context.Context, actor policy.Actor, value string) (*models.Category, error) {
	if err := policy.Authorize(actor, policy.ActionRetrieve, policy.On(policy.ResourceCategory)); err != nil {
		return nil, err
	}
	return s.repo.GetBySlug(ctx, value)
}

func (s *categoryService) Create(ctx context.Context, actor policy.Actor, req dto.CategoryRequest) (*models.Category, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.On(policy.ResourceCategory)); err != nil {
		return nil, err
	}
	c := &models.Category{Name: strings.TrimSpace(req.Name), Slug: req.Slug}
	if c.Slug == "" {
		c.Slug = slug.From(c.Name)
	}
	if err := validateNamed(c.Name, maxCategoryName, c.Slug); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, actor policy.Actor, value string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.On(policy.ResourceCategory)); err != nil {
		return nil, err
	}
	c, err := s.repo.GetBySlug(ctx, value)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		c.Slug = *req.Slug
	}
	if err := validateNamed(c.Name, maxCategoryName, c.Slug); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, actor policy.Actor, value string) error {
	if err := policy.Authorize(actor, policy.ActionDelete, policy.On(policy.ResourceCategory)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, value)
}

// validateNamed checks the name/slug pair shared by categories and genres.
func validateNamed(name string, maxName int, value string) error {
	return validation.First(
		validation.Required("name", name),
		validation.MaxLength("name", name, maxName),
		validation.Slug(value),
	)
}
