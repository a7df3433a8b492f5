package comment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	articleRepo "github.com/inkwell-cms/inkwell/internal/modules/article/repository"
	commentDto "github.com/inkwell-cms/inkwell/internal/modules/comment/dto"
	commentRepo "github.com/inkwell-cms/inkwell/internal/modules/comment/repository"
	profileRepo "github.com/inkwell-cms/inkwell/internal/modules/profile/repository"
	userRepo "github.com/inkwell-cms/inkwell/internal/modules/user/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type commentTestEnv struct {
	db      *gorm.DB
	svc     CommentService
	author  entity.User
	reader  entity.User
	admin   entity.User
	article entity.Article
}

func setupCommentTest(t *testing.T) *commentTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Category{},
		&entity.Tag{},
		&entity.Article{},
		&entity.Comment{},
	))

	env := &commentTestEnv{db: db}
	env.author = createTestUser(t, db, "author", entity.UserTypeAuthor)
	env.reader = createTestUser(t, db, "reader", entity.UserTypeRegular)
	env.admin = createTestUser(t, db, "admin", entity.UserTypeAdmin)
	env.article = createTestArticle(t, db, env.author.ID, "First Post")

	env.svc = NewCommentService(
		commentRepo.NewCommentRepository(db),
		articleRepo.NewArticleRepository(db),
		userRepo.NewUserRepository(db),
		profileRepo.NewProfileRepository(db),
		nil,
	)
	return env
}

func createTestUser(t *testing.T, db *gorm.DB, username, userType string) entity.User {
	t.Helper()

	user := entity.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&entity.Profile{UserID: user.ID, UserType: userType}).Error)
	return user
}

func createTestArticle(t *testing.T, db *gorm.DB, authorID uuid.UUID, title string) entity.Article {
	t.Helper()

	category := entity.Category{Name: "General " + title, Slug: "general-" + uuid.NewString()}
	require.NoError(t, db.Create(&category).Error)

	article := entity.Article{
		Title:      title,
		Slug:       "slug-" + uuid.NewString(),
		Content:    "content",
		AuthorID:   authorID,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&article).Error)
	return article
}

func (env *commentTestEnv) insertComment(t *testing.T, userID uuid.UUID, parentID *uuid.UUID, content string, approved bool, createdAt time.Time) entity.Comment {
	t.Helper()

	comment := entity.Comment{
		ArticleID:  env.article.ID,
		UserID:     userID,
		Content:    content,
		ParentID:   parentID,
		IsApproved: approved,
		CreatedAt:  createdAt,
	}
	require.NoError(t, env.db.Create(&comment).Error)
	return comment
}

func TestCreateComment(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	res, err := env.svc.CreateComment(ctx, env.reader.ID, env.article.ID, commentDto.CreateCommentRequest{
		Content: "great read",
	})
	require.NoError(t, err)

	assert.Equal(t, env.article.ID, res.ArticleID)
	assert.Equal(t, "reader", res.User.Username)
	assert.True(t, res.IsApproved)
	assert.False(t, res.IsReply)
	assert.Nil(t, res.ParentID)
	assert.Empty(t, res.Replies)
}

func TestCreateCommentUnknownArticle(t *testing.T) {
	env := setupCommentTest(t)

	_, err := env.svc.CreateComment(context.Background(), env.reader.ID, uuid.New(), commentDto.CreateCommentRequest{
		Content: "lost",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateReply(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	parent := env.insertComment(t, env.author.ID, nil, "root", true, time.Now())

	res, err := env.svc.CreateComment(ctx, env.reader.ID, env.article.ID, commentDto.CreateCommentRequest{
		Content:  "agreed",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)

	assert.True(t, res.IsReply)
	require.NotNil(t, res.ParentID)
	assert.Equal(t, parent.ID, *res.ParentID)
}

func TestCreateReplyUnknownParent(t *testing.T) {
	env := setupCommentTest(t)

	missing := uuid.New()
	_, err := env.svc.CreateComment(context.Background(), env.reader.ID, env.article.ID, commentDto.CreateCommentRequest{
		Content:  "orphan",
		ParentID: &missing,
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateReplyParentOnOtherArticle(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	other := createTestArticle(t, env.db, env.author.ID, "Second Post")
	foreign := entity.Comment{
		ArticleID:  other.ID,
		UserID:     env.author.ID,
		Content:    "elsewhere",
		IsApproved: true,
	}
	require.NoError(t, env.db.Create(&foreign).Error)

	_, err := env.svc.CreateComment(ctx, env.reader.ID, env.article.ID, commentDto.CreateCommentRequest{
		Content:  "cross thread",
		ParentID: &foreign.ID,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidReference)
}

func TestGetArticleComments(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	older := env.insertComment(t, env.author.ID, nil, "older root", true, base)
	newer := env.insertComment(t, env.reader.ID, nil, "newer root", true, base.Add(10*time.Minute))

	firstReply := env.insertComment(t, env.reader.ID, &older.ID, "first reply", true, base.Add(time.Minute))
	secondReply := env.insertComment(t, env.author.ID, &older.ID, "second reply", true, base.Add(2*time.Minute))
	hidden := env.insertComment(t, env.reader.ID, &older.ID, "hidden reply", false, base.Add(3*time.Minute))
	nested := env.insertComment(t, env.author.ID, &firstReply.ID, "nested", true, base.Add(4*time.Minute))

	res, err := env.svc.GetArticleComments(ctx, env.article.ID)
	require.NoError(t, err)

	// Flat listing, every comment regardless of moderation state, newest first
	require.Len(t, res, 6)
	assert.Equal(t, newer.ID, res[0].ID)
	assert.Equal(t, nested.ID, res[1].ID)
	assert.Equal(t, hidden.ID, res[2].ID)
	assert.Equal(t, secondReply.ID, res[3].ID)
	assert.Equal(t, firstReply.ID, res[4].ID)
	assert.Equal(t, older.ID, res[5].ID)

	// Unapproved reply is counted but never serialized as a nested reply
	olderRes := res[5]
	assert.EqualValues(t, 3, olderRes.ReplyCount)
	require.Len(t, olderRes.Replies, 2)

	// Replies oldest first, one level deep
	assert.Equal(t, firstReply.ID, olderRes.Replies[0].ID)
	assert.Equal(t, secondReply.ID, olderRes.Replies[1].ID)
	assert.Empty(t, olderRes.Replies[0].Replies)

	// The reply appears flat with its own approved replies attached
	firstReplyRes := res[4]
	assert.EqualValues(t, 1, firstReplyRes.ReplyCount)
	require.Len(t, firstReplyRes.Replies, 1)
	assert.Equal(t, nested.ID, firstReplyRes.Replies[0].ID)
}

func TestListComments(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	root := env.insertComment(t, env.author.ID, nil, "root", true, base)
	reply := env.insertComment(t, env.reader.ID, &root.ID, "reply", true, base.Add(time.Minute))
	hidden := env.insertComment(t, env.reader.ID, nil, "hidden", false, base.Add(2*time.Minute))

	other := createTestArticle(t, env.db, env.author.ID, "Second Post")
	foreign := entity.Comment{
		ArticleID:  other.ID,
		UserID:     env.author.ID,
		Content:    "elsewhere",
		IsApproved: true,
	}
	require.NoError(t, env.db.Create(&foreign).Error)

	// No filter: every comment, moderation state notwithstanding
	all, err := env.svc.ListComments(ctx, nil, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// Article filter
	scoped, err := env.svc.ListComments(ctx, &env.article.ID, false)
	require.NoError(t, err)
	require.Len(t, scoped, 3)

	// Roots only: the rejected root is still listed
	roots, err := env.svc.ListComments(ctx, &env.article.ID, true)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, hidden.ID, roots[0].ID)
	assert.Equal(t, root.ID, roots[1].ID)
	require.Len(t, roots[1].Replies, 1)
	assert.Equal(t, reply.ID, roots[1].Replies[0].ID)
}

func TestGetArticleCommentsIncludesUnapproved(t *testing.T) {
	env := setupCommentTest(t)

	pending := env.insertComment(t, env.reader.ID, nil, "pending root", false, time.Now())

	res, err := env.svc.GetArticleComments(context.Background(), env.article.ID)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, pending.ID, res[0].ID)
	assert.False(t, res[0].IsApproved)
}

func TestModerateComment(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	comment := env.insertComment(t, env.reader.ID, nil, "borderline", true, time.Now())

	rejected, err := env.svc.ModerateComment(ctx, comment.ID, false)
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)

	// Rejecting twice is a no-op
	rejected, err = env.svc.ModerateComment(ctx, comment.ID, false)
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)

	pending, err := env.svc.GetPendingComments(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, comment.ID, pending[0].ID)

	approved, err := env.svc.ModerateComment(ctx, comment.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	pending, err = env.svc.GetPendingComments(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRejectedReplyLeavesNestedView(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	root := env.insertComment(t, env.author.ID, nil, "root", true, time.Now().Add(-time.Minute))
	reply := env.insertComment(t, env.reader.ID, &root.ID, "reply", true, time.Now())

	_, err := env.svc.ModerateComment(ctx, reply.ID, false)
	require.NoError(t, err)

	// The reply drops out of the nested projection but stays in the flat
	// listing and in the pending queue; the count stays live.
	res, err := env.svc.GetArticleComments(ctx, env.article.ID)
	require.NoError(t, err)
	require.Len(t, res, 2)

	rootRes := res[1]
	assert.Equal(t, root.ID, rootRes.ID)
	assert.Empty(t, rootRes.Replies)
	assert.EqualValues(t, 1, rootRes.ReplyCount)

	pending, err := env.svc.GetPendingComments(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, reply.ID, pending[0].ID)
}

func TestPendingCommentsCarryLiveReplyCounts(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	root := env.insertComment(t, env.author.ID, nil, "contested", false, base)
	reply := env.insertComment(t, env.reader.ID, &root.ID, "still here", true, base.Add(time.Minute))
	env.insertComment(t, env.reader.ID, &root.ID, "also rejected", false, base.Add(2*time.Minute))

	pending, err := env.svc.GetPendingComments(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// Newest first; the rejected root keeps its live count and its approved
	// replies
	rootRes := pending[1]
	assert.Equal(t, root.ID, rootRes.ID)
	assert.EqualValues(t, 2, rootRes.ReplyCount)
	require.Len(t, rootRes.Replies, 1)
	assert.Equal(t, reply.ID, rootRes.Replies[0].ID)
}

func TestModerateUnknownComment(t *testing.T) {
	env := setupCommentTest(t)

	_, err := env.svc.ModerateComment(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteCommentByOwner(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	comment := env.insertComment(t, env.reader.ID, nil, "mine", true, time.Now())

	require.NoError(t, env.svc.DeleteComment(ctx, env.reader.ID, comment.ID))

	var count int64
	require.NoError(t, env.db.Model(&entity.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteCommentByStranger(t *testing.T) {
	env := setupCommentTest(t)

	comment := env.insertComment(t, env.author.ID, nil, "not yours", true, time.Now())

	err := env.svc.DeleteComment(context.Background(), env.reader.ID, comment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteCommentByAdminCascadesReplies(t *testing.T) {
	env := setupCommentTest(t)
	ctx := context.Background()

	root := env.insertComment(t, env.reader.ID, nil, "root", true, time.Now().Add(-time.Minute))
	env.insertComment(t, env.author.ID, &root.ID, "reply", true, time.Now())

	require.NoError(t, env.svc.DeleteComment(ctx, env.admin.ID, root.ID))

	var count int64
	require.NoError(t, env.db.Model(&entity.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteUnknownComment(t *testing.T) {
	env := setupCommentTest(t)

	err := env.svc.DeleteComment(context.Background(), env.reader.ID, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
