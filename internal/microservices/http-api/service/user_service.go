package service

import (
	"context"
	"strings"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/validation"
)

// UserService covers account management by admins and the /users/me
// self-service path.
type UserService interface {
	List(ctx context.Context, actor policy.Actor, q dto.UserQuery) ([]models.User, int64, error)
	Create(ctx context.Context, actor policy.Actor, req dto.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, actor policy.Actor, username string) (*models.User, error)
	Update(ctx context.Context, actor policy.Actor, username string, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor policy.Actor, username string) error
	Me(ctx context.Context, actor policy.Actor) (*models.User, error)
	UpdateMe(ctx context.Context, actor policy.Actor, req dto.UpdateUserRequest) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, actor policy.Actor, q dto.UserQuery) ([]models.User, int64, error) {
	if err := policy.Authorize(actor, policy.ActionList, policy.On(policy.ResourceUser)); err != nil {
		return nil, 0, err
	}
	page := q.PageQuery.Normalize()
	return s.repo.List(ctx, strings.TrimSpace(q.Search), page.Page, page.PageSize)
}

func (s *userService) Create(ctx context.Context, actor policy.Actor, req dto.CreateUserRequest) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.On(policy.ResourceUser)); err != nil {
		return nil, err
	}
	if err := validation.Username(req.Username); err != nil {
		return nil, err
	}
	role, err := validation.Role(req.Role)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, actor policy.Actor, username string) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionRetrieve, policy.On(policy.ResourceUser)); err != nil {
		return nil, err
	}
	return s.repo.FindByUsername(ctx, username)
}

func (s *userService) Update(ctx context.Context, actor policy.Actor, username string, req dto.UpdateUserRequest) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.On(policy.ResourceUser)); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := applyUserPatch(user, req, true); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor policy.Actor, username string) error {
	if err := policy.Authorize(actor, policy.ActionDelete, policy.On(policy.ResourceUser)); err != nil {
		return err
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID)
}

func (s *userService) Me(ctx context.Context, actor policy.Actor) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionRetrieve, policy.On(policy.ResourceSelf)); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, actor.UserID)
}

// UpdateMe applies a partial profile update to the caller. A submitted role
// is ignored.
func (s *userService) UpdateMe(ctx context.Context, actor policy.Actor, req dto.UpdateUserRequest) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.On(policy.ResourceSelf)); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := applyUserPatch(user, req, false); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func applyUserPatch(user *models.User, req dto.UpdateUserRequest, allowRole bool) error {
	if req.Username != nil {
		if err := validation.Username(*req.Username); err != nil {
			return err
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		if err := validation.Required("email", *req.Email); err != nil {
			return err
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if allowRole && req.Role != nil {
		role, err := validation.Role(*req.Role)
		if err != nil {
			return err
		}
		user.Role = role
	}
	return nil
}
