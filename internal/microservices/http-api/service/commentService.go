package service

import (
	"context"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/validation"
)

// CommentService manages comments nested under a title's review. Every
// operation first checks that the review belongs to the title.
type CommentService interface {
	List(ctx context.Context, actor policy.Actor, titleID, reviewID int64, q dto.PageQuery) ([]models.Comment, int64, error)
	Get(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*models.Comment, error)
	Update(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
}

func NewCommentService(comments repository.CommentRepository, reviews repository.ReviewRepository) CommentService {
	return &commentService{
		comments: comments,
		reviews:  reviews,
	}
}

func (s *commentService) List(ctx context.Context, actor policy.Actor, titleID, reviewID int64, q dto.PageQuery) ([]models.Comment, int64, error) {
	if err := policy.Authorize(actor, policy.ActionList, policy.On(policy.ResourceComment)); err != nil {
		return nil, 0, err
	}
	if _, err := s.reviews.GetByID(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	page := q.Normalize()
	return s.comments.ListByReview(ctx, reviewID, page.Page, page.PageSize)
}

func (s *commentService) Get(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := policy.Authorize(actor, policy.ActionRetrieve, policy.On(policy.ResourceComment)); err != nil {
		return nil, err
	}
	if _, err := s.reviews.GetByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, reviewID, commentID)
}

// Create adds a comment by the actor to a review
func (s *commentService) Create(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.CreateCommentRequest) (*models.Comment, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.On(policy.ResourceComment)); err != nil {
		return nil, err
	}
	if _, err := s.reviews.GetByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if err := validation.Required("text", req.Text); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Text:     req.Text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	return s.comments.GetByID(ctx, reviewID, comment.ID)
}

// Update edits the text of a comment; author, review and pub_date are fixed.
func (s *commentService) Update(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.owned(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.Owned(policy.ResourceComment, comment.AuthorID)); err != nil {
		return nil, err
	}
	if req.Text != nil {
		if err := validation.Required("text", *req.Text); err != nil {
			return nil, err
		}
		comment.Text = *req.Text
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) error {
	comment, err := s.owned(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.Owned(policy.ResourceComment, comment.AuthorID)); err != nil {
		return err
	}
	return s.comments.Delete(ctx, reviewID, commentID)
}

func (s *commentService) owned(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.reviews.GetByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, reviewID, commentID)
}
