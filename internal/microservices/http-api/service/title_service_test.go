package service

import (
	"context"
	"testing"
	"time"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/policy"
	"reviewhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type titleFixture struct {
	titles     *MockTitleRepository
	categories *MockCategoryRepository
	genres     *MockGenreRepository
	reviews    *MockReviewRepository
	svc        *titleService
}

func newTitleFixture() *titleFixture {
	f := &titleFixture{
		titles:     new(MockTitleRepository),
		categories: new(MockCategoryRepository),
		genres:     new(MockGenreRepository),
		reviews:    new(MockReviewRepository),
	}
	f.svc = NewTitleService(f.titles, f.categories, f.genres, f.reviews).(*titleService)
	f.svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func intPtr(i int) *int { return &i }

func TestTitleService_ListAttachesRatings(t *testing.T) {
	f := newTitleFixture()
	f.titles.On("List", mock.Anything, repository.TitleFilter{GenreSlug: "drama"}, 1, dto.DefaultPageSize).
		Return([]models.Title{{ID: 1, Name: "Reviewed"}, {ID: 2, Name: "Unreviewed"}}, int64(2), nil)
	f.reviews.On("ScoresByTitles", mock.Anything, []int64{1, 2}).
		Return(map[int64][]int{1: {8, 6, 10}}, nil)

	titles, total, err := f.svc.List(context.Background(), policy.Anonymous(), dto.TitleQuery{Genre: "drama"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.NotNil(t, titles[0].Rating)
	assert.Equal(t, 8.0, *titles[0].Rating)
	assert.Nil(t, titles[1].Rating)
}

func TestTitleService_CreateResolvesSlugs(t *testing.T) {
	f := newTitleFixture()
	movie := &models.Category{ID: 4, Name: "Movie", Slug: "movie"}
	genres := []models.Genre{{ID: 1, Slug: "drama"}, {ID: 2, Slug: "comedy"}}

	f.categories.On("GetBySlug", mock.Anything, "movie").Return(movie, nil)
	f.genres.On("GetBySlugs", mock.Anything, []string{"drama", "comedy"}).Return(genres, nil)
	f.titles.On("Create", mock.Anything, mock.MatchedBy(func(t *models.Title) bool {
		return t.CategoryID != nil && *t.CategoryID == 4 && len(t.Genres) == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Title).ID = 10
	}).Return(nil)
	f.titles.On("GetByID", mock.Anything, int64(10)).
		Return(&models.Title{ID: 10, Name: "Heat", Category: movie, Genres: genres}, nil)
	f.reviews.On("ScoresByTitles", mock.Anything, []int64{10}).Return(map[int64][]int{}, nil)

	created, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{
		Name:     "Heat",
		Year:     intPtr(1995),
		Genre:    []string{"drama", "comedy", "drama"},
		Category: strPtr("movie"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Nil(t, created.Rating)
	f.titles.AssertExpectations(t)
}

func TestTitleService_CreateRejectsFutureYear(t *testing.T) {
	f := newTitleFixture()

	_, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{Name: "Sequel", Year: intPtr(2025)})

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "year", apperr.As(err).Field)

	// the current year itself is fine
	assert.NoError(t, f.svc.validate(&models.Title{Name: "Now", Year: intPtr(2024)}))
}

func TestTitleService_CreateRejectsUnknownGenre(t *testing.T) {
	f := newTitleFixture()
	f.genres.On("GetBySlugs", mock.Anything, []string{"drama", "nope"}).
		Return([]models.Genre{{ID: 1, Slug: "drama"}}, nil)

	_, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{Name: "Heat", Genre: []string{"drama", "nope"}})

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "genre", apperr.As(err).Field)
	f.titles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleService_CreateRejectsUnknownCategory(t *testing.T) {
	f := newTitleFixture()
	f.categories.On("GetBySlug", mock.Anything, "nope").Return(nil, apperr.NotFound("category"))

	_, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{Name: "Heat", Category: strPtr("nope")})

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "category", apperr.As(err).Field)
}

func TestTitleService_UpdateClearsCategoryAndKeepsGenres(t *testing.T) {
	f := newTitleFixture()
	catID := int64(4)
	existing := &models.Title{ID: 10, Name: "Heat", CategoryID: &catID, Category: &models.Category{ID: 4}}
	f.titles.On("GetByID", mock.Anything, int64(10)).Return(existing, nil)
	f.titles.On("Update", mock.Anything, existing, false).Return(nil)
	f.reviews.On("ScoresByTitles", mock.Anything, []int64{10}).Return(map[int64][]int{10: {7, 8}}, nil)

	updated, err := f.svc.Update(context.Background(), superuser, 10, dto.UpdateTitleRequest{Category: strPtr("")})

	require.NoError(t, err)
	assert.Nil(t, existing.CategoryID)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 7.5, *updated.Rating)
}

func TestTitleService_UpdateYear(t *testing.T) {
	tests := []struct {
		name string
		year dto.NullableInt
		want *int
	}{
		{"absent keeps the year", dto.NullableInt{}, intPtr(1995)},
		{"null clears the year", dto.NullableInt{Set: true}, nil},
		{"value replaces the year", dto.NullableInt{Set: true, Value: intPtr(1996)}, intPtr(1996)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTitleFixture()
			existing := &models.Title{ID: 10, Name: "Heat", Year: intPtr(1995)}
			f.titles.On("GetByID", mock.Anything, int64(10)).Return(existing, nil)
			f.titles.On("Update", mock.Anything, existing, false).Return(nil)
			f.reviews.On("ScoresByTitles", mock.Anything, []int64{10}).Return(map[int64][]int{}, nil)

			updated, err := f.svc.Update(context.Background(), admin, 10, dto.UpdateTitleRequest{Year: tt.year})

			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.Year)
		})
	}
}

func TestTitleService_UpdateRejectsFutureYear(t *testing.T) {
	f := newTitleFixture()
	f.titles.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{ID: 10, Name: "Heat"}, nil)

	_, err := f.svc.Update(context.Background(), admin, 10, dto.UpdateTitleRequest{
		Year: dto.NullableInt{Set: true, Value: intPtr(2030)},
	})

	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "year", apperr.As(err).Field)
	f.titles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTitleService_WritesNeedElevatedActor(t *testing.T) {
	f := newTitleFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, moderator, dto.CreateTitleRequest{Name: "Heat"})
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	assert.ErrorIs(t, f.svc.Delete(ctx, policy.Anonymous(), 1), apperr.ErrAuthentication)
	f.titles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
