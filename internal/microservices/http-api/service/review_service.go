package service

import (
	"context"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/validation"
)

type ReviewService interface {
	List(ctx context.Context, actor policy.Actor, titleID int64, q dto.PageQuery) ([]models.Review, int64, error)
	Get(ctx context.Context, actor policy.Actor, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, actor policy.Actor, titleID int64, req dto.CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, actor policy.Actor, titleID, reviewID int64) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
}

func NewReviewService(reviews repository.ReviewRepository, titles repository.TitleRepository) ReviewService {
	return &reviewService{reviews: reviews, titles: titles}
}

func (s *reviewService) List(ctx context.Context, actor policy.Actor, titleID int64, q dto.PageQuery) ([]models.Review, int64, error) {
	if err := policy.Authorize(actor, policy.ActionList, policy.On(policy.ResourceReview)); err != nil {
		return nil, 0, err
	}
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return nil, 0, err
	}
	page := q.Normalize()
	return s.reviews.ListByTitle(ctx, titleID, page.Page, page.PageSize)
}

func (s *reviewService) Get(ctx context.Context, actor policy.Actor, titleID, reviewID int64) (*models.Review, error) {
	if err := policy.Authorize(actor, policy.ActionRetrieve, policy.On(policy.ResourceReview)); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, titleID, reviewID)
}

// Create adds the actor's review of a title. A second review of the same
// title by the same author is a conflict; the unique index catches the race
// the pre-check cannot.
func (s *reviewService) Create(ctx context.Context, actor policy.Actor, titleID int64, req dto.CreateReviewRequest) (*models.Review, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.On(policy.ResourceReview)); err != nil {
		return nil, err
	}
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return nil, err
	}
	if req.Score == nil {
		return nil, apperr.Validation("score", "score is required")
	}
	if err := validation.First(
		validation.Required("text", req.Text),
		validation.Score(*req.Score),
	); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsByTitleAndAuthor(ctx, titleID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("", "duplicate review")
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Text:     req.Text,
		Score:    *req.Score,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.Owned(policy.ResourceReview, review.AuthorID)); err != nil {
		return nil, err
	}

	if req.Text != nil {
		if err := validation.Required("text", *req.Text); err != nil {
			return nil, err
		}
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := validation.Score(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, actor policy.Actor, titleID, reviewID int64) error {
	review, err := s.reviews.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.Owned(policy.ResourceReview, review.AuthorID)); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, titleID, reviewID)
}
