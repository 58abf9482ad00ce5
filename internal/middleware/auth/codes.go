package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/microservices/http-api/models"

	"github.com/google/uuid"
)

// ErrCodeNotFound is returned by a CodeStore when a user has no live code.
var ErrCodeNotFound = errors.New("confirmation code not found")

// CodeStore keeps at most one hashed confirmation code per user.
type CodeStore interface {
	Save(ctx context.Context, userID int64, hash string, ttl time.Duration) error
	Get(ctx context.Context, userID int64) (string, error)
	// Delete removes the code and reports whether this call removed it.
	Delete(ctx context.Context, userID int64) (bool, error)
}

// CodeIssuer generates and checks single-use confirmation codes.
type CodeIssuer struct {
	store CodeStore
	ttl   time.Duration
}

func NewCodeIssuer(store CodeStore, ttl time.Duration) *CodeIssuer {
	return &CodeIssuer{store: store, ttl: ttl}
}

// Generate creates a fresh code for user, replacing any previous one.
func (i *CodeIssuer) Generate(ctx context.Context, user *models.User) (string, error) {
	code := uuid.NewString()
	hash, err := HashCode(code)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := i.store.Save(ctx, user.ID, hash, i.ttl); err != nil {
		return "", fmt.Errorf("save confirmation code: %w", err)
	}
	return code, nil
}

// Verify reports whether code is the user's live code. A matching code is
// consumed; when two requests race with the same code only one gets true.
func (i *CodeIssuer) Verify(ctx context.Context, user *models.User, code string) (bool, error) {
	hash, err := i.store.Get(ctx, user.ID)
	if errors.Is(err, ErrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load confirmation code: %w", err)
	}

	if VerifyCode(hash, code) != nil {
		return false, nil
	}

	deleted, err := i.store.Delete(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("consume confirmation code: %w", err)
	}
	return deleted, nil
}
