// Package validation holds the field rules applied before anything is
// persisted. Each rule returns nil or an *apperr.AppError of kind Validation
// naming the field.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"reviewhub/internal/apperr"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/pkg/slug"
)

// ReservedUsername is the path segment of the self-service endpoint.
const ReservedUsername = "me"

const MaxUsernameLength = 150

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func Username(username string) error {
	if username == ReservedUsername {
		return apperr.Validation("username", `"me" cannot be used as a username`)
	}
	if username == "" {
		return apperr.Validation("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return apperr.Validation("username", fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation("username", "username may contain only letters, digits and @/./+/-/_")
	}
	return nil
}

// Year rejects years after now's calendar year. A nil year is valid.
func Year(year *int, now time.Time) error {
	if year == nil {
		return nil
	}
	if *year > now.Year() {
		return apperr.Validation("year", fmt.Sprintf("year cannot be later than %d", now.Year()))
	}
	return nil
}

func Score(score int) error {
	if score < models.MinScore || score > models.MaxScore {
		return apperr.Validation("score", fmt.Sprintf("score must be between %d and %d", models.MinScore, models.MaxScore))
	}
	return nil
}

func Role(role string) (models.Role, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return "", apperr.Validation("role", "role must be one of user, moderator, admin")
	}
	return r, nil
}

func Slug(s string) error {
	if !slug.Valid(s) {
		return apperr.Validation("slug", fmt.Sprintf("slug must be 1-%d letters, digits, hyphens or underscores", slug.MaxLength))
	}
	return nil
}

// Required rejects blank strings.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation(field, field+" is required")
	}
	return nil
}

// MaxLength rejects values longer than max characters.
func MaxLength(field, value string, max int) error {
	if len([]rune(value)) > max {
		return apperr.Validation(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

// First returns the first non-nil error, so rules can be listed in order.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
