package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/validation"
)

const maxTitleName = 150

type TitleService interface {
	List(ctx context.Context, actor policy.Actor, q dto.TitleQuery) ([]models.Title, int64, error)
	Get(ctx context.Context, actor policy.Actor, id int64) (*models.Title, error)
	Create(ctx context.Context, actor policy.Actor, req dto.CreateTitleRequest) (*models.Title, error)
	Update(ctx context.Context, actor policy.Actor, id int64, req dto.UpdateTitleRequest) (*models.Title, error)
	Delete(ctx context.Context, actor policy.Actor, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	reviews    repository.ReviewRepository
	now        func() time.Time
}

func NewTitleService(
	titles repository.TitleRepository,
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
	reviews repository.ReviewRepository,
) TitleService {
	return &titleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		reviews:    reviews,
		now:        time.Now,
	}
}

func (s *titleService) List(ctx context.Context, actor policy.Actor, q dto.TitleQuery) ([]models.Title, int64, error) {
	if err := policy.Authorize(actor, policy.ActionList, policy.On(policy.ResourceTitle)); err != nil {
		return nil, 0, err
	}
	page := q.PageQuery.Normalize()
	filter := repository.TitleFilter{
		CategorySlug: q.Category,
		GenreSlug:    q.Genre,
		Name:         strings.TrimSpace(q.Name),
		Year:         q.Year,
	}
	titles, total, err := s.titles.List(ctx, filter, page.Page, page.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachRatings(ctx, titles); err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func (s *titleService) Get(ctx context.Context, actor policy.Actor, id int64) (*models.Title, error) {
	if err := policy.Authorize(actor, policy.ActionRetrieve, policy.On(policy.ResourceTitle)); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *titleService) Create(ctx context.Context, actor policy.Actor, req dto.CreateTitleRequest) (*models.Title, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.On(policy.ResourceTitle)); err != nil {
		return nil, err
	}

	t := &models.Title{
		Name:        strings.TrimSpace(req.Name),
		Year:        req.Year,
		Description: req.Description,
	}
	if err := s.validate(t); err != nil {
		return nil, err
	}
	if err := s.setCategory(ctx, t, req.Category); err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}
	t.Genres = genres

	if err := s.titles.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.load(ctx, t.ID)
}

func (s *titleService) Update(ctx context.Context, actor policy.Actor, id int64, req dto.UpdateTitleRequest) (*models.Title, error) {
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.On(policy.ResourceTitle)); err != nil {
		return nil, err
	}
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Year.Set {
		t.Year = req.Year.Value
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if err := s.validate(t); err != nil {
		return nil, err
	}
	if req.Category != nil {
		if err := s.setCategory(ctx, t, req.Category); err != nil {
			return nil, err
		}
	}
	replaceGenres := req.Genre != nil
	if replaceGenres {
		genres, err := s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		t.Genres = genres
	}

	if err := s.titles.Update(ctx, t, replaceGenres); err != nil {
		return nil, err
	}
	return s.load(ctx, t.ID)
}

func (s *titleService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if err := policy.Authorize(actor, policy.ActionDelete, policy.On(policy.ResourceTitle)); err != nil {
		return err
	}
	return s.titles.Delete(ctx, id)
}

func (s *titleService) validate(t *models.Title) error {
	return validation.First(
		validation.Required("name", t.Name),
		validation.MaxLength("name", t.Name, maxTitleName),
		validation.Year(t.Year, s.now()),
	)
}

// setCategory resolves a category slug; nil or empty clears the category.
func (s *titleService) setCategory(ctx context.Context, t *models.Title, value *string) error {
	if value == nil || *value == "" {
		t.CategoryID = nil
		t.Category = nil
		return nil
	}
	c, err := s.categories.GetBySlug(ctx, *value)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Validation("category", fmt.Sprintf("category %q does not exist", *value))
	}
	if err != nil {
		return err
	}
	t.CategoryID = &c.ID
	t.Category = c
	return nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	wanted := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, v := range slugs {
		if !seen[v] {
			seen[v] = true
			wanted = append(wanted, v)
		}
	}
	if len(wanted) == 0 {
		return []models.Genre{}, nil
	}

	genres, err := s.genres.GetBySlugs(ctx, wanted)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, v := range wanted {
		if !found[v] {
			return nil, apperr.Validation("genre", fmt.Sprintf("genre %q does not exist", v))
		}
	}
	return genres, nil
}

func (s *titleService) load(ctx context.Context, id int64) (*models.Title, error) {
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	titles := []models.Title{*t}
	if err := s.attachRatings(ctx, titles); err != nil {
		return nil, err
	}
	return &titles[0], nil
}

// attachRatings fills Rating on each title from its current review scores.
func (s *titleService) attachRatings(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]int64, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
	}
	scores, err := s.reviews.ScoresByTitles(ctx, ids)
	if err != nil {
		return err
	}
	for i := range titles {
		titles[i].Rating = models.AverageScore(scores[titles[i].ID])
	}
	return nil
}
