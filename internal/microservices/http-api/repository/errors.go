package repository

import (
	"errors"
	"fmt"
	"strings"

	"reviewhub/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

type constraintError struct {
	field   string
	message string
}

// uniqueConstraints maps the constraint names from the schema migrations to
// the field reported in the ConflictError.
var uniqueConstraints = map[string]constraintError{
	"users_username_key":             {"username", "username already in use"},
	"users_email_key":                {"email", "email already in use"},
	"users_username_email_key":       {"username", "username already in use"},
	"categories_slug_key":            {"slug", "category with this slug already exists"},
	"genres_slug_key":                {"slug", "genre with this slug already exists"},
	"reviews_title_id_author_id_key": {"", "duplicate review"},
}

// translate converts driver and gorm errors into apperr kinds. resource names
// the entity for NotFound messages. Unknown errors are wrapped with op.
func translate(err error, op, resource string) error {
	if err == nil {
		return nil
	}
	if apperr.As(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if c, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
				return &apperr.AppError{Kind: apperr.KindConflict, Field: c.field, Message: c.message, Cause: err}
			}
			return &apperr.AppError{Kind: apperr.KindConflict, Message: resource + " already exists", Cause: err}
		case pgForeignKeyViolation:
			return &apperr.AppError{Kind: apperr.KindValidation, Message: "referenced object does not exist", Cause: err}
		case pgCheckViolation:
			return &apperr.AppError{Kind: apperr.KindValidation, Message: "value violates constraint " + pgErr.ConstraintName, Cause: err}
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apperr.AppError{Kind: apperr.KindConflict, Message: resource + " already exists", Cause: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &apperr.AppError{Kind: apperr.KindValidation, Message: "referenced object does not exist", Cause: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// paginate applies page/pageSize (1-based) to a query.
func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds an ILIKE operand that matches s literally anywhere
// in the column. Backslash is the default LIKE escape in PostgreSQL.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
