package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Article struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Slug       string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null" json:"category_id"`
	Category   Category  `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Tags       []Tag     `gorm:"many2many:article_tags" json:"tags,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// OwnerID implements authz.Owned.
func (a *Article) OwnerID() uuid.UUID {
	return a.AuthorID
}
