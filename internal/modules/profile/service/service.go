package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	profileDto "github.com/inkwell-cms/inkwell/internal/modules/profile/dto"
	profileRepo "github.com/inkwell-cms/inkwell/internal/modules/profile/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	commonDto "github.com/inkwell-cms/inkwell/pkg/dto"
	"github.com/inkwell-cms/inkwell/pkg/storage"
)

type ProfileService interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*profileDto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req profileDto.UpdateProfileRequest, avatar *commonDto.AvatarFile) (*profileDto.ProfileResponse, error)
	ChangeUserType(ctx context.Context, profileID uuid.UUID, userType string) (*profileDto.ProfileResponse, error)
	UserTypes() []profileDto.UserTypeOption
}

type profileService struct {
	repo         profileRepo.ProfileRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(repo profileRepo.ProfileRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
	}
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error) {
	profile, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToResponse(profile), nil
}

func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*profileDto.ProfileResponse, error) {
	profile, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return mapToResponse(profile), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req profileDto.UpdateProfileRequest, avatar *commonDto.AvatarFile) (*profileDto.ProfileResponse, error) {
	profile, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}

	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		if profile.AvatarURL != nil {
			// Best effort, stale avatars are cleaned up by the storage provider
			_ = s.imageStorage.DeleteImage(ctx, *profile.AvatarURL)
		}
		profile.AvatarURL = &url
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return mapToResponse(profile), nil
}

func (s *profileService) ChangeUserType(ctx context.Context, profileID uuid.UUID, userType string) (*profileDto.ProfileResponse, error) {
	valid := false
	for _, t := range entity.UserTypes {
		if t == userType {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: invalid user_type %q", apperror.ErrValidation, userType)
	}

	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.UserType = userType
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return mapToResponse(profile), nil
}

func (s *profileService) UserTypes() []profileDto.UserTypeOption {
	return []profileDto.UserTypeOption{
		{Value: entity.UserTypeRegular, Label: "Regular User"},
		{Value: entity.UserTypeAuthor, Label: "Author"},
		{Value: entity.UserTypeAdmin, Label: "Admin"},
	}
}

func mapToResponse(p *entity.Profile) *profileDto.ProfileResponse {
	return &profileDto.ProfileResponse{
		ID: p.ID,
		User: commonDto.UserBrief{
			ID:       p.UserID,
			Username: p.User.Username,
		},
		UserType:  p.UserType,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
