package dto

import "github.com/google/uuid"

type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"omitempty,max=100"`
}

type TagResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ArticleCount int64     `json:"article_count,omitempty"`
}
