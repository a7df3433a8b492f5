package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	// GetOrCreate returns the user's profile, creating a regular one on
	// first access. Exactly one profile per user.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByUsername(ctx context.Context, username string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// The user itself must exist in the identity mirror
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperror.ErrNotFound, userID)
		}
		return nil, err
	}

	profile = entity.Profile{
		UserID:   userID,
		UserType: entity.UserTypeRegular,
	}
	if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	profile.User = user
	return &profile, nil
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile %s", apperror.ErrNotFound, id)
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.username = ?", username).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile for %s", apperror.ErrNotFound, username)
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
