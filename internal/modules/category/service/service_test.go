package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	"github.com/inkwell-cms/inkwell/internal/modules/category/dto"
	"github.com/inkwell-cms/inkwell/internal/modules/category/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCategoryTest(t *testing.T) (CategoryService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Tag{},
		&entity.Article{},
	))

	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func TestCreateCategory(t *testing.T) {
	svc, _ := setupCategoryTest(t)

	res, err := svc.CreateCategory(context.Background(), dto.CreateCategoryRequest{
		Name:        "Science & Nature",
		Description: "research",
	})
	require.NoError(t, err)

	assert.Equal(t, "Science & Nature", res.Name)
	assert.Equal(t, "science-nature", res.Slug)
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Culture"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "culture"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreateCategoryEmptySlug(t *testing.T) {
	svc, _ := setupCategoryTest(t)

	_, err := svc.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "!!!"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetAllCategoriesWithCounts(t *testing.T) {
	svc, db := setupCategoryTest(t)
	ctx := context.Background()

	busy, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Busy"})
	require.NoError(t, err)
	quiet, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Quiet"})
	require.NoError(t, err)

	author := entity.User{Username: "author", Email: "author@example.com"}
	require.NoError(t, db.Create(&author).Error)

	for i := 0; i < 2; i++ {
		article := entity.Article{
			Title:      "a",
			Slug:       uuid.NewString(),
			Content:    "c",
			AuthorID:   author.ID,
			CategoryID: busy.ID,
		}
		require.NoError(t, db.Create(&article).Error)
	}

	res, err := svc.GetAllCategories(ctx)
	require.NoError(t, err)
	require.Len(t, res, 2)

	// Busiest category first
	assert.Equal(t, busy.ID, res[0].ID)
	assert.EqualValues(t, 2, res[0].ArticleCount)
	assert.Equal(t, quiet.ID, res[1].ID)
	assert.EqualValues(t, 0, res[1].ArticleCount)
}

func TestDeleteCategory(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	err = svc.DeleteCategory(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteUnknownCategory(t *testing.T) {
	svc, _ := setupCategoryTest(t)

	err := svc.DeleteCategory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
