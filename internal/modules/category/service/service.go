package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	"github.com/inkwell-cms/inkwell/internal/modules/category/dto"
	"github.com/inkwell-cms/inkwell/internal/modules/category/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/slug"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	// Slug is derived from the name when absent and immutable afterwards
	categorySlug := req.Slug
	if categorySlug == "" {
		categorySlug = slug.Make(req.Name)
	}
	if categorySlug == "" {
		return nil, fmt.Errorf("%w: category name produces an empty slug", apperror.ErrValidation)
	}

	if existing, _ := s.repo.FindBySlug(ctx, categorySlug); existing != nil {
		return nil, fmt.Errorf("%w: category with slug %s already exists", apperror.ErrValidation, categorySlug)
	}

	category := &entity.Category{
		Name:        req.Name,
		Slug:        categorySlug,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	return &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, dto.CategoryResponse{
			ID:           cat.ID,
			Name:         cat.Name,
			Slug:         cat.Slug,
			Description:  cat.Description,
			ArticleCount: cat.ArticleCount,
		})
	}

	return responses, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
