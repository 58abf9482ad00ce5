package repository

import (
	"context"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, titleID, reviewID int64) error
	ExistsByTitleAndAuthor(ctx context.Context, titleID, authorID int64) (bool, error)
	// ScoresByTitles returns every review score keyed by title id.
	ScoresByTitles(ctx context.Context, titleIDs []int64) (map[int64][]int, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Title").Create(review).Error; err != nil {
		return translate(err, "create review", "review")
	}
	return nil
}

// GetByID loads a review only if it belongs to titleID.
func (r *reviewRepository) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, titleID).
		First(&review).Error
	if err != nil {
		return nil, translate(err, "get review", "review")
	}
	return &review, nil
}

func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count reviews", "review")
	}
	err := q.Scopes(paginate(page, pageSize)).Preload("Author").
		Order("pub_date asc").Order("id asc").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, translate(err, "list reviews", "review")
	}
	return reviews, total, nil
}

// Update writes text and score only; title, author and pub_date are fixed at
// creation.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).Model(review).Select("text", "score").Updates(review)
	if result.Error != nil {
		return translate(result.Error, "update review", "review")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update review", "review")
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, titleID, reviewID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND title_id = ?", reviewID, titleID).
		Delete(&models.Review{})
	if result.Error != nil {
		return translate(result.Error, "delete review", "review")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete review", "review")
	}
	return nil
}

func (r *reviewRepository) ExistsByTitleAndAuthor(ctx context.Context, titleID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "check review", "review")
	}
	return count > 0, nil
}

func (r *reviewRepository) ScoresByTitles(ctx context.Context, titleIDs []int64) (map[int64][]int, error) {
	scores := make(map[int64][]int, len(titleIDs))
	if len(titleIDs) == 0 {
		return scores, nil
	}

	var rows []struct {
		TitleID int64
		Score   int
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, score").
		Where("title_id IN ?", titleIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "load review scores", "review")
	}
	for _, row := range rows {
		scores[row.TitleID] = append(scores[row.TitleID], row.Score)
	}
	return scores, nil
}
