package dto

import (
	"time"

	"ratehub/internal/models"
)

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text" binding:"omitempty,max=5000"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:      comment.ID,
		Author:  comment.Author.Username,
		Text:    comment.Text,
		PubDate: comment.CreatedAt,
	}
}
