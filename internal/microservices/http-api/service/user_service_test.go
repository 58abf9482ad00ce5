package service

import (
	"context"
	"testing"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_ManagementRequiresElevatedActor(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	ctx := context.Background()

	_, _, err := svc.List(ctx, policy.Anonymous(), dto.UserQuery{})
	assert.ErrorIs(t, err, apperr.ErrAuthentication)

	for _, actor := range []policy.Actor{moderator, author} {
		_, _, err := svc.List(ctx, actor, dto.UserQuery{})
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
		_, err = svc.Get(ctx, actor, "reader")
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
		assert.ErrorIs(t, svc.Delete(ctx, actor, "reader"), apperr.ErrAuthorization)
	}
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ListNormalizesPage(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	repo.On("List", mock.Anything, "rea", 1, dto.DefaultPageSize).
		Return([]models.User{{Username: "reader"}}, int64(1), nil)

	users, total, err := svc.List(context.Background(), superuser, dto.UserQuery{Search: " rea "})

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(1), total)
}

func TestUserService_CreateValidatesUsernameAndRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, dto.CreateUserRequest{Username: "me", Email: "me@example.com"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "username", apperr.As(err).Field)

	_, err = svc.Create(ctx, admin, dto.CreateUserRequest{Username: "bob", Email: "bob@example.com", Role: "owner"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "role", apperr.As(err).Field)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	user, err := svc.Create(ctx, admin, dto.CreateUserRequest{Username: "bob", Email: "bob@example.com", Role: "moderator"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
}

func TestUserService_UpdateMeIgnoresRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	me := &models.User{ID: author.UserID, Username: "reader", Role: models.RoleUser}
	repo.On("FindByID", mock.Anything, author.UserID).Return(me, nil)
	repo.On("Update", mock.Anything, me).Return(nil)

	updated, err := svc.UpdateMe(context.Background(), author, dto.UpdateUserRequest{
		Bio:  strPtr("hello"),
		Role: strPtr("admin"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, "hello", updated.Bio)
}

func TestUserService_UpdateMeRejectsReservedUsername(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	repo.On("FindByID", mock.Anything, author.UserID).Return(&models.User{ID: author.UserID, Username: "reader"}, nil)

	_, err := svc.UpdateMe(context.Background(), author, dto.UpdateUserRequest{Username: strPtr("me")})

	require.ErrorIs(t, err, apperr.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_AdminUpdateChangesRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	target := &models.User{ID: 9, Username: "reader", Role: models.RoleUser}
	repo.On("FindByUsername", mock.Anything, "reader").Return(target, nil)
	repo.On("Update", mock.Anything, target).Return(nil)

	updated, err := svc.Update(context.Background(), admin, "reader", dto.UpdateUserRequest{Role: strPtr("moderator")})

	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
}

func TestUserService_MeRequiresAuthentication(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	_, err := svc.Me(context.Background(), policy.Anonymous())
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}
