package tag

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	"github.com/inkwell-cms/inkwell/internal/modules/tag/dto"
	"github.com/inkwell-cms/inkwell/internal/modules/tag/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTagTest(t *testing.T) (TagService, *gorm.DB) {
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

	return NewTagService(repository.NewTagRepository(db)), db
}

func TestCreateTag(t *testing.T) {
	svc, _ := setupTagTest(t)

	res, err := svc.CreateTag(context.Background(), dto.CreateTagRequest{Name: "Go Generics"})
	require.NoError(t, err)

	assert.Equal(t, "Go Generics", res.Name)
	assert.Equal(t, "go-generics", res.Slug)
}

func TestCreateTagDuplicateSlug(t *testing.T) {
	svc, _ := setupTagTest(t)
	ctx := context.Background()

	_, err := svc.CreateTag(ctx, dto.CreateTagRequest{Name: "tooling"})
	require.NoError(t, err)

	_, err = svc.CreateTag(ctx, dto.CreateTagRequest{Name: "Tooling"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetTagBySlug(t *testing.T) {
	svc, _ := setupTagTest(t)
	ctx := context.Background()

	created, err := svc.CreateTag(ctx, dto.CreateTagRequest{Name: "essay"})
	require.NoError(t, err)

	found, err := svc.GetTagBySlug(ctx, "essay")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetTagBySlug(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetAllTagsWithCounts(t *testing.T) {
	svc, db := setupTagTest(t)
	ctx := context.Background()

	popular, err := svc.CreateTag(ctx, dto.CreateTagRequest{Name: "popular"})
	require.NoError(t, err)
	_, err = svc.CreateTag(ctx, dto.CreateTagRequest{Name: "niche"})
	require.NoError(t, err)

	author := entity.User{Username: "author", Email: "author@example.com"}
	require.NoError(t, db.Create(&author).Error)
	category := entity.Category{Name: "General", Slug: "general"}
	require.NoError(t, db.Create(&category).Error)

	article := entity.Article{
		Title:      "a",
		Slug:       uuid.NewString(),
		Content:    "c",
		AuthorID:   author.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&article).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO article_tags (article_id, tag_id) VALUES (?, ?)",
		article.ID, popular.ID,
	).Error)

	res, err := svc.GetAllTags(ctx)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, popular.ID, res[0].ID)
	assert.EqualValues(t, 1, res[0].ArticleCount)
	assert.EqualValues(t, 0, res[1].ArticleCount)
}

func TestDeleteTag(t *testing.T) {
	svc, _ := setupTagTest(t)
	ctx := context.Background()

	created, err := svc.CreateTag(ctx, dto.CreateTagRequest{Name: "temp"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTag(ctx, created.ID))

	err = svc.DeleteTag(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
