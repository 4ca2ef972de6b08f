package dto

import (
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Body      string    `json:"body"`
	TaskID    uint64    `json:"task_id"`
	TaskTitle string    `json:"task_title,omitempty"`
	AuthorID  uint64    `json:"author_id"`
	Author    *UserDTO  `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Body:      comment.Body,
		TaskID:    comment.TaskID,
		TaskTitle: comment.Task.Title,
		AuthorID:  comment.AuthorID,
		Author:    ToUserDTOPtr(&comment.Author),
		CreatedAt: comment.CreatedAt,
	}
}

// ToCommentDTOs converts a list of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return dtos
}
