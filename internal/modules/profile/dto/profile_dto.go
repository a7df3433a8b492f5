package dto

import (
	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/pkg/dto"
)

type UpdateProfileRequest struct {
	Bio *string `json:"bio" form:"bio" binding:"omitempty,max=500"`
}

type ChangeUserTypeRequest struct {
	UserType string `json:"user_type" binding:"required,oneof=regular author admin"`
}

type UserTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ProfileResponse struct {
	ID        uuid.UUID     `json:"id"`
	User      dto.UserBrief `json:"user"`
	UserType  string        `json:"user_type"`
	Bio       string        `json:"bio"`
	AvatarURL *string       `json:"avatar_url"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}
