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

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Article, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Article, error)
	FindAll(ctx context.Context, categorySlug, tagSlug string) ([]*entity.Article, error)
	FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	ReplaceTags(ctx context.Context, article *entity.Article, tags []entity.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *entity.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Tags")
}

func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	var article entity.Article
	if err := r.preloaded(ctx).Where("id = ?", id).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article %s", apperror.ErrNotFound, id)
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	var article entity.Article
	if err := r.preloaded(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article %s", apperror.ErrNotFound, slug)
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Article, error) {
	var articles []*entity.Article
	if len(ids) == 0 {
		return articles, nil
	}
	err := r.preloaded(ctx).Where("id IN ?", ids).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) FindAll(ctx context.Context, categorySlug, tagSlug string) ([]*entity.Article, error) {
	query := r.preloaded(ctx)

	if categorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if tagSlug != "" {
		query = query.
			Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.slug = ?", tagSlug)
	}

	var articles []*entity.Article
	err := query.Order("articles.created_at DESC, articles.id ASC").Find(&articles).Error
	return articles, err
}

func (r *articleRepository) FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*entity.Article, error) {
	var articles []*entity.Article
	err := r.preloaded(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id ASC").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) Update(ctx context.Context, article *entity.Article) error {
	// Save without touching the association table; tags go through ReplaceTags
	return r.db.WithContext(ctx).Omit("Tags").Save(article).Error
}

func (r *articleRepository) ReplaceTags(ctx context.Context, article *entity.Article, tags []entity.Tag) error {
	// Full replacement, never additive
	return r.db.WithContext(ctx).Model(article).Association("Tags").Replace(tags)
}

func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM article_tags WHERE article_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Article{}, "id = ?", id).Error
	})
}
