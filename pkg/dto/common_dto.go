package dto

import (
	"io"

	"github.com/google/uuid"
)

// UserBrief is the nested author representation used inside comments and articles.
type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type AvatarFile struct {
	Reader   io.Reader
	FileName string
}
