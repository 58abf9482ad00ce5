package importer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/validation"
)

// run tracks the ids written so far so foreign keys are checked before the
// database sees them.
type run struct {
	sink Sink
	now  time.Time

	categories map[int64]struct{}
	genres     map[int64]struct{}
	users      map[int64]struct{}
	titles     map[int64]struct{}
	reviews    map[int64]struct{}
	comments   map[int64]struct{}
	links      map[[2]int64]struct{}
}

func newRun(sink Sink, now time.Time) *run {
	return &run{
		sink:       sink,
		now:        now,
		categories: make(map[int64]struct{}),
		genres:     make(map[int64]struct{}),
		users:      make(map[int64]struct{}),
		titles:     make(map[int64]struct{}),
		reviews:    make(map[int64]struct{}),
		comments:   make(map[int64]struct{}),
		links:      make(map[[2]int64]struct{}),
	}
}

func (r *run) category(ctx context.Context, rec record) error {
	id, name, slug, err := namedRow(rec, r.categories)
	if err != nil {
		return err
	}
	if err := r.sink.CreateCategory(ctx, &models.Category{ID: id, Name: name, Slug: slug}); err != nil {
		return err
	}
	r.categories[id] = struct{}{}
	return nil
}

func (r *run) genre(ctx context.Context, rec record) error {
	id, name, slug, err := namedRow(rec, r.genres)
	if err != nil {
		return err
	}
	if err := r.sink.CreateGenre(ctx, &models.Genre{ID: id, Name: name, Slug: slug}); err != nil {
		return err
	}
	r.genres[id] = struct{}{}
	return nil
}

func namedRow(rec record, seen map[int64]struct{}) (int64, string, string, error) {
	id, err := newID(rec, "id", seen)
	if err != nil {
		return 0, "", "", err
	}
	name, err := rec.required("name")
	if err != nil {
		return 0, "", "", err
	}
	slug, err := rec.required("slug")
	if err != nil {
		return 0, "", "", err
	}
	if err := validation.Slug(slug); err != nil {
		return 0, "", "", err
	}
	return id, name, slug, nil
}

func (r *run) user(ctx context.Context, rec record) error {
	id, err := newID(rec, "id", r.users)
	if err != nil {
		return err
	}
	username, _ := rec.get("username")
	if err := validation.Username(username); err != nil {
		return err
	}
	email, err := rec.required("email")
	if err != nil {
		return err
	}
	rawRole, _ := rec.get("role", "user_role")
	role, err := validation.Role(rawRole)
	if err != nil {
		return err
	}
	superuser, err := optionalBool(rec, "is_superuser")
	if err != nil {
		return err
	}

	u := &models.User{
		ID:          id,
		Username:    username,
		Email:       email,
		Role:        role,
		IsSuperuser: superuser,
	}
	u.Bio, _ = rec.get("bio")
	u.FirstName, _ = rec.get("first_name")
	u.LastName, _ = rec.get("last_name")

	if err := r.sink.CreateUser(ctx, u); err != nil {
		return err
	}
	r.users[id] = struct{}{}
	return nil
}

func (r *run) title(ctx context.Context, rec record) error {
	id, err := newID(rec, "id", r.titles)
	if err != nil {
		return err
	}
	name, err := rec.required("name")
	if err != nil {
		return err
	}

	t := &models.Title{ID: id, Name: name}
	t.Description, _ = rec.get("description")

	if raw, ok := rec.get("year"); ok && raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid year %q", raw)
		}
		if err := validation.Year(&year, r.now); err != nil {
			return err
		}
		t.Year = &year
	}

	if raw, ok := rec.get("category", "category_id"); ok && raw != "" {
		categoryID, err := reference(raw, "category", r.categories)
		if err != nil {
			return err
		}
		t.CategoryID = &categoryID
	}

	if err := r.sink.CreateTitle(ctx, t); err != nil {
		return err
	}
	r.titles[id] = struct{}{}
	return nil
}

func (r *run) review(ctx context.Context, rec record) error {
	id, err := newID(rec, "id", r.reviews)
	if err != nil {
		return err
	}
	titleID, err := requiredReference(rec, "title_id", "title", r.titles)
	if err != nil {
		return err
	}
	authorID, err := requiredReference(rec, "author", "user", r.users)
	if err != nil {
		return err
	}
	text, err := rec.required("text")
	if err != nil {
		return err
	}
	rawScore, err := rec.required("score")
	if err != nil {
		return err
	}
	score, err := strconv.Atoi(rawScore)
	if err != nil {
		return fmt.Errorf("invalid score %q", rawScore)
	}
	if err := validation.Score(score); err != nil {
		return err
	}
	pubDate, err := r.pubDate(rec)
	if err != nil {
		return err
	}

	review := &models.Review{
		ID:       id,
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    score,
		PubDate:  pubDate,
	}
	if err := r.sink.CreateReview(ctx, review); err != nil {
		return err
	}
	r.reviews[id] = struct{}{}
	return nil
}

func (r *run) comment(ctx context.Context, rec record) error {
	id, err := newID(rec, "id", r.comments)
	if err != nil {
		return err
	}
	reviewID, err := requiredReference(rec, "review_id", "review", r.reviews)
	if err != nil {
		return err
	}
	authorID, err := requiredReference(rec, "author", "user", r.users)
	if err != nil {
		return err
	}
	text, err := rec.required("text")
	if err != nil {
		return err
	}
	pubDate, err := r.pubDate(rec)
	if err != nil {
		return err
	}

	comment := &models.Comment{
		ID:       id,
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     text,
		PubDate:  pubDate,
	}
	if err := r.sink.CreateComment(ctx, comment); err != nil {
		return err
	}
	r.comments[id] = struct{}{}
	return nil
}

func (r *run) genreTitle(ctx context.Context, rec record) error {
	titleID, err := requiredReference(rec, "title_id", "title", r.titles)
	if err != nil {
		return err
	}
	genreID, err := requiredReference(rec, "genre_id", "genre", r.genres)
	if err != nil {
		return err
	}
	key := [2]int64{titleID, genreID}
	if _, dup := r.links[key]; dup {
		return fmt.Errorf("title %d is already linked to genre %d", titleID, genreID)
	}
	if err := r.sink.LinkGenre(ctx, &models.GenreTitle{TitleID: titleID, GenreID: genreID}); err != nil {
		return err
	}
	r.links[key] = struct{}{}
	return nil
}

var pubDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// pubDate parses pub_date. An absent or empty value is the import time.
func (r *run) pubDate(rec record) (time.Time, error) {
	raw, ok := rec.get("pub_date")
	if !ok || raw == "" {
		return r.now, nil
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid pub_date %q", raw)
}

// newID parses a primary key column and rejects ids already used in the
// same file.
func newID(rec record, column string, seen map[int64]struct{}) (int64, error) {
	raw, err := rec.required(column)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", column, raw)
	}
	if _, dup := seen[id]; dup {
		return 0, fmt.Errorf("duplicate %s %d", column, id)
	}
	return id, nil
}

func requiredReference(rec record, column, entity string, known map[int64]struct{}) (int64, error) {
	raw, err := rec.required(column)
	if err != nil {
		return 0, err
	}
	return reference(raw, entity, known)
}

func reference(raw, entity string, known map[int64]struct{}) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", entity, raw)
	}
	if _, ok := known[id]; !ok {
		return 0, fmt.Errorf("%s %d does not exist", entity, id)
	}
	return id, nil
}

func optionalBool(rec record, column string) (bool, error) {
	raw, ok := rec.get(column)
	if !ok || raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", column, raw)
	}
	return v, nil
}
