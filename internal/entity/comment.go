package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a node in the per-article comment forest. ParentID is a foreign
// key by value; the reply tree is assembled by id lookup, never by chasing
// loaded pointers. The parent must belong to the same article, which is
// enforced at creation time by the comment service.
type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"article_id"`
	Article    Article    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent     *Comment   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	// No column default on purpose: gorm drops zero values for defaulted
	// columns on insert, which would turn an explicit false into true. The
	// approved-by-default rule lives in the create path instead.
	IsApproved bool       `gorm:"not null" json:"is_approved"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// IsReply reports whether this comment replies to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// OwnerID implements authz.Owned.
func (c *Comment) OwnerID() uuid.UUID {
	return c.UserID
}
