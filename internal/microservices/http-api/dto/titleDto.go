package dto

import (
	"encoding/json"

	"reviewhub/internal/microservices/http-api/models"
)

// CreateTitleRequest references genres and category by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=150"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

// NullableInt records whether a JSON field was sent at all, so a partial
// update can tell "year": null (clear) from a missing key (keep).
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// UpdateTitleRequest is a partial update. A present "genre" replaces the
// title's genres; an empty "category" clears it, as does "year": null.
type UpdateTitleRequest struct {
	Name        *string     `json:"name" binding:"omitempty,max=150"`
	Year        NullableInt `json:"year"`
	Description *string     `json:"description"`
	Genre       *[]string   `json:"genre"`
	Category    *string     `json:"category"`
}

// TitleQuery holds the list filters for GET /titles
type TitleQuery struct {
	PageQuery
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        *int              `json:"year"`
	Rating      *float64          `json:"rating,omitempty"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleFromModel(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       MapSlice(t.Genres, GenreFromModel),
	}
	if t.Category != nil {
		c := CategoryFromModel(t.Category)
		resp.Category = &c
	}
	return resp
}
