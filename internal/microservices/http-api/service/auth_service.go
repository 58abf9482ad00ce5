package service

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/validation"
	"reviewhub/internal/notify"
)

// errInvalidCode is returned for every failed token exchange, including an
// unknown username.
var errInvalidCode = apperr.Authentication("invalid username or confirmation code")

// CodeGenerator issues and consumes single-use confirmation codes.
type CodeGenerator interface {
	Generate(ctx context.Context, user *models.User) (string, error)
	Verify(ctx context.Context, user *models.User, code string) (bool, error)
}

// TokenIssuer mints access credentials.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*models.User, error)
	IssueToken(ctx context.Context, req dto.TokenRequest) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	codes    CodeGenerator
	tokens   TokenIssuer
	mailer   notify.Mailer
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes CodeGenerator,
	tokens TokenIssuer,
	mailer notify.Mailer,
) AuthService {
	return &authService{
		userRepo: userRepo,
		codes:    codes,
		tokens:   tokens,
		mailer:   mailer,
	}
}

// Signup registers a user with the default role and mails a confirmation code.
// If the code cannot be delivered the user is removed again so the same
// signup can be retried.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*models.User, error) {
	if err := validation.Username(req.Username); err != nil {
		return nil, err
	}

	// Check if user exists
	if err := s.ensureFree(ctx, s.userRepo.FindByUsername, req.Username, "username"); err != nil {
		return nil, err
	}
	// Check if email exists
	if err := s.ensureFree(ctx, s.userRepo.FindByEmail, req.Email, "email"); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleUser,
	}
	// a concurrent signup for the same name surfaces here as a conflict
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	code, err := s.codes.Generate(ctx, user)
	if err != nil {
		return nil, apperr.Internal("issue confirmation code", s.discard(ctx, user, err))
	}

	subject, body := notify.ConfirmationMessage(user.Username, code)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return nil, apperr.Internal("send confirmation code", s.discard(ctx, user, err))
	}
	return user, nil
}

func (s *authService) ensureFree(
	ctx context.Context,
	find func(context.Context, string) (*models.User, error),
	value, field string,
) error {
	_, err := find(ctx, value)
	if err == nil {
		return apperr.Conflict(field, field+" already in use")
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

// discard removes a user whose signup could not complete and returns cause,
// joined with the delete error when the user could not be removed. It runs
// detached from the request context, which may already be cancelled.
func (s *authService) discard(ctx context.Context, user *models.User, cause error) error {
	if err := s.userRepo.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
		return errors.Join(cause, fmt.Errorf("remove unconfirmed user %q: %w", user.Username, err))
	}
	return cause
}

// IssueToken exchanges a username and confirmation code for an access token.
func (s *authService) IssueToken(ctx context.Context, req dto.TokenRequest) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", errInvalidCode
		}
		return "", err
	}

	ok, err := s.codes.Verify(ctx, user, req.ConfirmationCode)
	if err != nil {
		return "", apperr.Internal("verify confirmation code", err)
	}
	if !ok {
		return "", errInvalidCode
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", apperr.Internal("issue token", err)
	}
	return token, nil
}
