// Package authz holds the ownership policy gating mutations on owned
// resources. Every ownable entity implements Owned instead of being probed
// for user/author fields at runtime.
package authz

import (
	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
)

// Owned is implemented by resources that have a single owning identity.
type Owned interface {
	OwnerID() uuid.UUID
}

// CanModify reports whether the acting identity may mutate the resource.
// Elevated profiles (admin/owner user types) always pass; otherwise the actor
// must be the resource's owner. A nil resource or nil profile with no
// ownership match fails closed.
func CanModify(profile *entity.Profile, actorID uuid.UUID, res Owned) bool {
	if profile != nil && profile.IsElevated() {
		return true
	}
	if res == nil || actorID == uuid.Nil {
		return false
	}
	return actorID == res.OwnerID()
}
