package tag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	"github.com/inkwell-cms/inkwell/internal/modules/tag/dto"
	"github.com/inkwell-cms/inkwell/internal/modules/tag/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/slug"
)

type TagService interface {
	CreateTag(ctx context.Context, req dto.CreateTagRequest) (*dto.TagResponse, error)
	GetAllTags(ctx context.Context) ([]dto.TagResponse, error)
	GetTagBySlug(ctx context.Context, slug string) (*dto.TagResponse, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) CreateTag(ctx context.Context, req dto.CreateTagRequest) (*dto.TagResponse, error) {
	tagSlug := req.Slug
	if tagSlug == "" {
		tagSlug = slug.Make(req.Name)
	}
	if tagSlug == "" {
		return nil, fmt.Errorf("%w: tag name produces an empty slug", apperror.ErrValidation)
	}

	if existing, _ := s.repo.FindBySlug(ctx, tagSlug); existing != nil {
		return nil, fmt.Errorf("%w: tag with slug %s already exists", apperror.ErrValidation, tagSlug)
	}

	tag := &entity.Tag{
		Name: req.Name,
		Slug: tagSlug,
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}

	return &dto.TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}, nil
}

func (s *tagService) GetAllTags(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		responses = append(responses, dto.TagResponse{
			ID:           t.ID,
			Name:         t.Name,
			Slug:         t.Slug,
			ArticleCount: t.ArticleCount,
		})
	}

	return responses, nil
}

func (s *tagService) GetTagBySlug(ctx context.Context, tagSlug string) (*dto.TagResponse, error) {
	tag, err := s.repo.FindBySlug(ctx, tagSlug)
	if err != nil {
		return nil, err
	}
	return &dto.TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}, nil
}

func (s *tagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
