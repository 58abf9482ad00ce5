package handler_test

import (
	"net/http"
	"testing"
	"time"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/handler"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupReviewRouter(reviews *MockReviewService, comments *MockCommentService, actor policy.Actor) *gin.Engine {
	return setupRouter(actor, func(rg *gin.RouterGroup) {
		handler.NewReviewHandler(reviews).RegisterRoutes(rg)
		handler.NewCommentHandler(comments).RegisterRoutes(rg)
	})
}

func TestReviewHandler_Create(t *testing.T) {
	reviews := new(MockReviewService)
	r := setupReviewRouter(reviews, new(MockCommentService), reader)
	score := 8
	req := dto.CreateReviewRequest{Text: "solid", Score: &score}
	pub := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews.On("Create", mock.Anything, reader, int64(1), req).Return(&models.Review{
		ID: 5, Text: "solid", Score: 8, PubDate: pub, Author: &models.User{Username: "reader"},
	}, nil)

	w := perform(r, http.MethodPost, "/api/v1/titles/1/reviews", req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":5,"text":"solid","author":"reader","score":8,"pub_date":"2024-03-01T12:00:00Z"}`, w.Body.String())
}

func TestReviewHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"duplicate", apperr.Conflict("", "duplicate review"), http.StatusConflict},
		{"score out of range", apperr.Validation("score", "score must be between 1 and 10"), http.StatusBadRequest},
		{"missing title", apperr.NotFound("title"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(MockReviewService)
			r := setupReviewRouter(reviews, new(MockCommentService), reader)
			reviews.On("Create", mock.Anything, reader, int64(1), mock.Anything).Return(nil, tt.err)

			w := perform(r, http.MethodPost, "/api/v1/titles/1/reviews", `{"text":"x","score":11}`)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestReviewHandler_CreateMissingScore(t *testing.T) {
	reviews := new(MockReviewService)
	r := setupReviewRouter(reviews, new(MockCommentService), reader)

	w := perform(r, http.MethodPost, "/api/v1/titles/1/reviews", `{"text":"no score"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewHandler_ListIsPublic(t *testing.T) {
	reviews := new(MockReviewService)
	r := setupReviewRouter(reviews, new(MockCommentService), anonymous)
	reviews.On("List", mock.Anything, anonymous, int64(1), dto.PageQuery{Page: 1, PageSize: dto.DefaultPageSize}).
		Return([]models.Review{{ID: 1, Score: 5}}, int64(1), nil)

	w := perform(r, http.MethodGet, "/api/v1/titles/1/reviews", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}

func TestCommentHandler_DeleteByStrangerIsForbidden(t *testing.T) {
	comments := new(MockCommentService)
	r := setupReviewRouter(new(MockReviewService), comments, reader)
	comments.On("Delete", mock.Anything, reader, int64(1), int64(5), int64(8)).
		Return(apperr.Authorization("you do not have permission to perform this action"))

	w := perform(r, http.MethodDelete, "/api/v1/titles/1/reviews/5/comments/8", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommentHandler_Create(t *testing.T) {
	comments := new(MockCommentService)
	r := setupReviewRouter(new(MockReviewService), comments, reader)
	req := dto.CreateCommentRequest{Text: "agreed"}
	comments.On("Create", mock.Anything, reader, int64(1), int64(5), req).
		Return(&models.Comment{ID: 8, ReviewID: 5, Text: "agreed", Author: &models.User{Username: "reader"}}, nil)

	w := perform(r, http.MethodPost, "/api/v1/titles/1/reviews/5/comments", req)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "reader", body["author"])
	assert.Equal(t, float64(5), body["review"])
}

func TestCommentHandler_AnonymousWriteIsUnauthorized(t *testing.T) {
	comments := new(MockCommentService)
	r := setupReviewRouter(new(MockReviewService), comments, anonymous)

	w := perform(r, http.MethodPatch, "/api/v1/titles/1/reviews/5/comments/8", `{"text":"edit"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
