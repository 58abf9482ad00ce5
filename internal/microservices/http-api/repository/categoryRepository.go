package repository

import (
	"context"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, slug string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, "create category", "category")
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, translate(err, "get category", "category")
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	var list []models.Category
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Category{})
	if search != "" {
		q = q.Where("name ILIKE ?", containsPattern(search))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count categories", "category")
	}
	if err := q.Scopes(paginate(page, pageSize)).Order("id desc").Find(&list).Error; err != nil {
		return nil, 0, translate(err, "list categories", "category")
	}
	return list, total, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *models.Category) error {
	result := r.db.WithContext(ctx).Model(c).Select("name", "slug").Updates(c)
	if result.Error != nil {
		return translate(result.Error, "update category", "category")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update category", "category")
	}
	return nil
}

// Delete removes the category. Titles keep existing with a NULL category.
func (r *categoryRepository) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Category{})
	if result.Error != nil {
		return translate(result.Error, "delete category", "category")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete category", "category")
	}
	return nil
}
