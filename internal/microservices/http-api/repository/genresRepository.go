package repository

import (
	"context"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(ctx context.Context, g *models.Genre) error
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Update(ctx context.Context, g *models.Genre) error
	Delete(ctx context.Context, slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, g *models.Genre) error {
	return translate(r.db.WithContext(ctx).Create(g).Error, "create genre", "genre")
}

func (r *genreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, translate(err, "get genre", "genre")
	}
	return &g, nil
}

// GetBySlugs returns the genres matching slugs. Missing slugs are simply
// absent from the result.
func (r *genreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var list []models.Genre
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, translate(err, "get genres by slug", "genre")
	}
	return list, nil
}

func (r *genreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	var list []models.Genre
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Genre{})
	if search != "" {
		q = q.Where("name ILIKE ?", containsPattern(search))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count genres", "genre")
	}
	if err := q.Scopes(paginate(page, pageSize)).Order("id desc").Find(&list).Error; err != nil {
		return nil, 0, translate(err, "get genres", "genre")
	}
	return list, total, nil
}

func (r *genreRepository) Update(ctx context.Context, g *models.Genre) error {
	result := r.db.WithContext(ctx).Model(g).Select("name", "slug").Updates(g)
	if result.Error != nil {
		return translate(result.Error, "update genre", "genre")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update genre", "genre")
	}
	return nil
}

func (r *genreRepository) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return translate(result.Error, "delete genre", "genre")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete genre", "genre")
	}
	return nil
}
