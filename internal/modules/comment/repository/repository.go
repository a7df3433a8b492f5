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

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	// List returns comments newest first, regardless of moderation state,
	// optionally narrowed to an article and to root comments.
	List(ctx context.Context, articleID *uuid.UUID, rootsOnly bool) ([]*entity.Comment, error)
	// FindApprovedReplies returns approved direct replies for the given
	// parents, oldest first.
	FindApprovedReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*entity.Comment, error)
	// CountReplies counts all direct replies per parent, approved or not.
	CountReplies(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FindPending(ctx context.Context) ([]*entity.Comment, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %s", apperror.ErrNotFound, id)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, articleID *uuid.UUID, rootsOnly bool) ([]*entity.Comment, error) {
	query := r.db.WithContext(ctx).Preload("User")

	if articleID != nil {
		query = query.Where("article_id = ?", *articleID)
	}
	if rootsOnly {
		query = query.Where("parent_id IS NULL")
	}

	var comments []*entity.Comment
	err := query.Order("created_at DESC, id ASC").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindApprovedReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*entity.Comment, error) {
	var replies []*entity.Comment
	if len(parentIDs) == 0 {
		return replies, nil
	}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("parent_id IN ? AND is_approved = ?", parentIDs, true).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

func (r *commentRepository) CountReplies(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ParentID uuid.UUID
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Select("parent_id, COUNT(*) as total").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ParentID] = row.Total
	}
	return counts, nil
}

func (r *commentRepository) FindPending(ctx context.Context) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_approved = ?", false).
		Order("created_at DESC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: comment %s", apperror.ErrNotFound, id)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Replies go with their parent in one transaction
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Comment{}, "id = ?", id).Error
	})
}
