package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/pkg/dto"
)

// TagIDList accepts either a JSON array of tag ids or a single
// comma-separated string of ids ("id1,id2"), mirroring what clients send
// from form-style payloads.
type TagIDList []uuid.UUID

func (l *TagIDList) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*l = nil
		for _, part := range strings.Split(asString, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return fmt.Errorf("invalid tag id %q", part)
			}
			*l = append(*l, id)
		}
		return nil
	}

	var asList []uuid.UUID
	if err := json.Unmarshal(data, &asList); err != nil {
		return err
	}
	*l = asList
	return nil
}

type CreateArticleRequest struct {
	Title      string    `json:"title" binding:"required,max=200"`
	Content    string    `json:"content" binding:"required"`
	CategoryID uuid.UUID `json:"category" binding:"required"`
	TagIDs     TagIDList `json:"tag_ids"`
}

type UpdateArticleRequest struct {
	Title      *string    `json:"title" binding:"omitempty,max=200"`
	Content    *string    `json:"content"`
	CategoryID *uuid.UUID `json:"category"`
	// nil leaves tags untouched; an empty list clears them
	TagIDs *TagIDList `json:"tag_ids"`
}

type ArticleFilter struct {
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

type TagBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type ArticleResponse struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	Content      string        `json:"content"`
	Author       dto.UserBrief `json:"author"`
	Category     uuid.UUID     `json:"category"`
	CategoryName string        `json:"category_name"`
	Tags         []TagBrief    `json:"tags"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}
