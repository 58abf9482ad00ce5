package dto

import "reviewhub/internal/microservices/http-api/models"

// GenreRequest for POST /genres
type GenreRequest struct {
	Name string `json:"name" binding:"required,max=50"`
	Slug string `json:"slug" binding:"max=50"`
}

type UpdateGenreRequest struct {
	Name *string `json:"name" binding:"omitempty,max=50"`
	Slug *string `json:"slug" binding:"omitempty,max=50"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g *models.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}
