package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors an account in the external identity store. Credentials and
// token issuance live there; this table only carries what the content side
// needs to reference and display authors.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile   *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}

const (
	UserTypeRegular = "regular"
	UserTypeAuthor  = "author"
	UserTypeAdmin   = "admin"
	// UserTypeOwner is honored by the authorization policy but never assigned
	// through the API; it exists for operator-provisioned accounts.
	UserTypeOwner = "owner"
)

// UserTypes lists the values assignable through the profile API.
var UserTypes = []string{UserTypeRegular, UserTypeAuthor, UserTypeAdmin}

type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserType  string    `gorm:"size:10;not null;default:regular" json:"user_type"`
	Bio       string    `gorm:"type:text" json:"bio"`
	AvatarURL *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// OwnerID implements authz.Owned.
func (p *Profile) OwnerID() uuid.UUID {
	return p.UserID
}

// IsElevated reports whether the profile's user type bypasses ownership checks.
func (p *Profile) IsElevated() bool {
	return p.UserType == UserTypeAdmin || p.UserType == UserTypeOwner
}
