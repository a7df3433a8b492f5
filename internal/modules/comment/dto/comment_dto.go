package dto

import (
	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/pkg/dto"
)

type CreateCommentRequest struct {
	Content  string     `json:"content" binding:"required"`
	ParentID *uuid.UUID `json:"parent" binding:"omitempty"`
}

// PostCommentRequest is the flat form where the article comes in the body
// instead of the path.
type PostCommentRequest struct {
	ArticleID uuid.UUID  `json:"article" binding:"required"`
	Content   string     `json:"content" binding:"required"`
	ParentID  *uuid.UUID `json:"parent" binding:"omitempty"`
}

// CommentFilter narrows the flat listing. Parent accepts the literal "null"
// to restrict the listing to root comments.
type CommentFilter struct {
	Article string `form:"article"`
	Parent  string `form:"parent"`
}

type ModerateCommentRequest struct {
	IsApproved bool `json:"is_approved"`
}

// CommentResponse serializes a comment with its approved replies one level
// deep. Replies of replies are reachable through their own parent field but
// are never nested further.
type CommentResponse struct {
	ID         uuid.UUID         `json:"id"`
	ArticleID  uuid.UUID         `json:"article"`
	User       dto.UserBrief     `json:"user"`
	Content    string            `json:"content"`
	CreatedAt  string            `json:"created_at"`
	ParentID   *uuid.UUID        `json:"parent"`
	IsApproved bool              `json:"is_approved"`
	IsReply    bool              `json:"is_reply"`
	ReplyCount int64             `json:"reply_count"`
	Replies    []CommentResponse `json:"replies"`
}
