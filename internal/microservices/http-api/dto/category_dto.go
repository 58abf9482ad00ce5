package dto

import "reviewhub/internal/microservices/http-api/models"

// CategoryRequest for POST /categories. Slug is derived from Name when empty.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"max=50"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" binding:"omitempty,max=256"`
	Slug *string `json:"slug" binding:"omitempty,max=50"`
}

// SearchQuery is the list query for categories and genres.
type SearchQuery struct {
	PageQuery
	Search string `form:"search"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c *models.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}
