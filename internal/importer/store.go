package importer

import (
	"context"
	"fmt"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// Sink receives the rows of one import run. Every call happens inside the
// transaction opened by Store.WithinTx.
type Sink interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	CreateGenre(ctx context.Context, g *models.Genre) error
	CreateUser(ctx context.Context, u *models.User) error
	CreateTitle(ctx context.Context, t *models.Title) error
	CreateReview(ctx context.Context, r *models.Review) error
	CreateComment(ctx context.Context, c *models.Comment) error
	LinkGenre(ctx context.Context, link *models.GenreTitle) error
	// ResetSequences moves id sequences past the imported explicit ids.
	ResetSequences(ctx context.Context) error
}

// Store runs fn in a transaction, committing only when fn returns nil.
type Store interface {
	WithinTx(ctx context.Context, fn func(Sink) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(Sink) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSink{tx: tx})
	})
}

type gormSink struct {
	tx *gorm.DB
}

func (s *gormSink) create(ctx context.Context, what string, value any, omit ...string) error {
	q := s.tx.WithContext(ctx)
	if len(omit) > 0 {
		q = q.Omit(omit...)
	}
	if err := q.Create(value).Error; err != nil {
		return fmt.Errorf("insert %s: %w", what, err)
	}
	return nil
}

func (s *gormSink) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.create(ctx, "category", c)
}

func (s *gormSink) CreateGenre(ctx context.Context, g *models.Genre) error {
	return s.create(ctx, "genre", g)
}

func (s *gormSink) CreateUser(ctx context.Context, u *models.User) error {
	return s.create(ctx, "user", u)
}

func (s *gormSink) CreateTitle(ctx context.Context, t *models.Title) error {
	return s.create(ctx, "title", t, "Category", "Genres")
}

func (s *gormSink) CreateReview(ctx context.Context, r *models.Review) error {
	return s.create(ctx, "review", r, "Author", "Title")
}

func (s *gormSink) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.create(ctx, "comment", c, "Author", "Review")
}

func (s *gormSink) LinkGenre(ctx context.Context, link *models.GenreTitle) error {
	return s.create(ctx, "genre link", link)
}

var sequencedTables = []string{"categories", "genres", "users", "titles", "reviews", "comments"}

func (s *gormSink) ResetSequences(ctx context.Context) error {
	for _, table := range sequencedTables {
		// is_called=false on an empty table so the next id is 1
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM %[1]s",
			table,
		)
		if err := s.tx.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	return nil
}
