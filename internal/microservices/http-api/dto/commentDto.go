package dto

import (
	"time"

	"reviewhub/internal/microservices/http-api/models"
)

// CreateCommentRequest for creating a comment
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentRequest for updating a comment
type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
	Review  int64     `json:"review"`
}

// CommentFromModel converts a Comment model to CommentResponse DTO
func CommentFromModel(c *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		PubDate: c.PubDate,
		Review:  c.ReviewID,
	}
	if c.Author != nil {
		resp.Author = c.Author.Username
	}
	return resp
}
