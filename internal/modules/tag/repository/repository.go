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

type TagWithCount struct {
	entity.Tag
	ArticleCount int64 `json:"article_count"`
}

type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Tag, error)
	// FindByIDs returns only the tags that exist; callers compare lengths
	// to detect unknown ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Tag, error)
	FindAll(ctx context.Context) ([]TagWithCount, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error) {
	var tag entity.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tag %s", apperror.ErrNotFound, id)
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindBySlug(ctx context.Context, slug string) (*entity.Tag, error) {
	var tag entity.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tag %s", apperror.ErrNotFound, slug)
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Tag, error) {
	var tags []entity.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (r *tagRepository) FindAll(ctx context.Context) ([]TagWithCount, error) {
	var rows []TagWithCount
	err := r.db.WithContext(ctx).
		Model(&entity.Tag{}).
		Select("tags.*, count(article_tags.article_id) AS article_count").
		Joins("LEFT JOIN article_tags ON article_tags.tag_id = tags.id").
		Group("tags.id").
		Order("article_count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Tag{}, "id = ?", id).Error
}
