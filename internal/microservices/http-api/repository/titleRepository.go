package repository

import (
	"context"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows title listings. Zero values are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

type TitleRepository interface {
	Create(ctx context.Context, t *models.Title) error
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	// Update writes the scalar columns; genres are replaced only when
	// replaceGenres is set.
	Update(ctx context.Context, t *models.Title, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, t *models.Title) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres := t.Genres
		if err := tx.Omit("Category", "Genres").Create(t).Error; err != nil {
			return err
		}
		if len(genres) > 0 {
			if err := tx.Model(t).Omit("Genres.*").Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err, "create title", "title")
	}
	return nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get title", "title")
	}
	return &t, nil
}

func (r *titleRepository) List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.CategorySlug != "" {
		q = q.Where("titles.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug = ?", f.CategorySlug))
	}
	if f.GenreSlug != "" {
		q = q.Where("titles.id IN (?)",
			r.db.Table("genre_titles").Select("genre_titles.title_id").
				Joins("JOIN genres ON genres.id = genre_titles.genre_id").
				Where("genres.slug = ?", f.GenreSlug))
	}
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", containsPattern(f.Name))
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count titles", "title")
	}
	err := q.Scopes(paginate(page, pageSize)).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		Order("titles.id desc").
		Find(&titles).Error
	if err != nil {
		return nil, 0, translate(err, "list titles", "title")
	}
	return titles, total, nil
}

func (r *titleRepository) Update(ctx context.Context, t *models.Title, replaceGenres bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(t).Omit("Category", "Genres").
			Select("name", "year", "description", "category_id").
			Updates(t)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if replaceGenres {
			return tx.Model(t).Omit("Genres.*").Association("Genres").Replace(t.Genres)
		}
		return nil
	})
	if err != nil {
		return translate(err, "update title", "title")
	}
	return nil
}

// Delete removes the title together with its reviews, their comments and its
// genre links.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return translate(result.Error, "delete title", "title")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete title", "title")
	}
	return nil
}
