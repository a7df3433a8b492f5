package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/authz"
	"github.com/inkwell-cms/inkwell/internal/entity"
	articleRepo "github.com/inkwell-cms/inkwell/internal/modules/article/repository"
	commentDto "github.com/inkwell-cms/inkwell/internal/modules/comment/dto"
	commentRepo "github.com/inkwell-cms/inkwell/internal/modules/comment/repository"
	profileRepo "github.com/inkwell-cms/inkwell/internal/modules/profile/repository"
	userRepo "github.com/inkwell-cms/inkwell/internal/modules/user/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/dto"
	"github.com/inkwell-cms/inkwell/pkg/ratelimiter"
	"github.com/redis/go-redis/v9"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID uuid.UUID, articleID uuid.UUID, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error)
	// GetArticleComments returns every comment on an article newest first,
	// regardless of moderation state. The approved-only gate applies solely
	// to each comment's nested replies projection.
	GetArticleComments(ctx context.Context, articleID uuid.UUID) ([]commentDto.CommentResponse, error)
	// ListComments is the flat listing with optional article and roots-only
	// narrowing, serialized the same way as the article listing.
	ListComments(ctx context.Context, articleID *uuid.UUID, rootsOnly bool) ([]commentDto.CommentResponse, error)
	GetPendingComments(ctx context.Context) ([]commentDto.CommentResponse, error)
	ModerateComment(ctx context.Context, commentID uuid.UUID, approved bool) (*commentDto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo commentRepo.CommentRepository
	articleRepo articleRepo.ArticleRepository
	userRepo    userRepo.UserRepository
	profileRepo profileRepo.ProfileRepository
	redisClient *redis.Client
}

func NewCommentService(
	commentRepo commentRepo.CommentRepository,
	articleRepo articleRepo.ArticleRepository,
	userRepo userRepo.UserRepository,
	profileRepo profileRepo.ProfileRepository,
	redisClient *redis.Client,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		redisClient: redisClient,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID uuid.UUID, articleID uuid.UUID, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error) {
	cleanup, err := s.checkCommentRateLimit(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		cleanup()
		return nil, err
	}

	if _, err := s.articleRepo.FindByID(ctx, articleID); err != nil {
		cleanup()
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			cleanup()
			return nil, err
		}
		// A reply lives on the same article as its parent, no exceptions
		if parent.ArticleID != articleID {
			cleanup()
			return nil, fmt.Errorf("%w: parent comment belongs to a different article", apperror.ErrInvalidReference)
		}
	}

	comment := &entity.Comment{
		ArticleID:  articleID,
		UserID:     userID,
		Content:    req.Content,
		ParentID:   req.ParentID,
		IsApproved: true,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		cleanup()
		return nil, err
	}

	comment.User = *user
	res := s.mapToResponse(comment, 0, nil)
	return &res, nil
}

func (s *commentService) GetArticleComments(ctx context.Context, articleID uuid.UUID) ([]commentDto.CommentResponse, error) {
	if _, err := s.articleRepo.FindByID(ctx, articleID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.List(ctx, &articleID, false)
	if err != nil {
		return nil, err
	}

	return s.serializeWithReplies(ctx, comments)
}

func (s *commentService) ListComments(ctx context.Context, articleID *uuid.UUID, rootsOnly bool) ([]commentDto.CommentResponse, error) {
	comments, err := s.commentRepo.List(ctx, articleID, rootsOnly)
	if err != nil {
		return nil, err
	}

	return s.serializeWithReplies(ctx, comments)
}

// serializeWithReplies attaches approved replies one level deep and live
// reply counts to the given comments.
func (s *commentService) serializeWithReplies(ctx context.Context, comments []*entity.Comment) ([]commentDto.CommentResponse, error) {
	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	replies, err := s.commentRepo.FindApprovedReplies(ctx, ids)
	if err != nil {
		return nil, err
	}

	repliesByParent := make(map[uuid.UUID][]*entity.Comment, len(comments))
	replyIDs := make([]uuid.UUID, 0, len(replies))
	for _, r := range replies {
		repliesByParent[*r.ParentID] = append(repliesByParent[*r.ParentID], r)
		replyIDs = append(replyIDs, r.ID)
	}

	// Counts cover every reply, approved or not, so moderation never makes
	// the count disagree with what authors see on their own threads.
	counts, err := s.commentRepo.CountReplies(ctx, append(ids, replyIDs...))
	if err != nil {
		return nil, err
	}

	res := make([]commentDto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		children := repliesByParent[c.ID]
		mappedReplies := make([]commentDto.CommentResponse, 0, len(children))
		for _, child := range children {
			mappedReplies = append(mappedReplies, s.mapToResponse(child, counts[child.ID], nil))
		}
		res = append(res, s.mapToResponse(c, counts[c.ID], mappedReplies))
	}
	return res, nil
}

func (s *commentService) GetPendingComments(ctx context.Context) ([]commentDto.CommentResponse, error) {
	pending, err := s.commentRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	// Counts and replies stay live here too, a rejected parent can still
	// have a thread under it.
	return s.serializeWithReplies(ctx, pending)
}

func (s *commentService) ModerateComment(ctx context.Context, commentID uuid.UUID, approved bool) (*commentDto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.IsApproved != approved {
		if err := s.commentRepo.SetApproved(ctx, commentID, approved); err != nil {
			return nil, err
		}
		comment.IsApproved = approved
	}

	res := s.mapToResponse(comment, 0, nil)
	return &res, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if !authz.CanModify(profile, userID, comment) {
		return fmt.Errorf("%w: you can only delete your own comment", apperror.ErrForbidden)
	}

	return s.commentRepo.Delete(ctx, commentID)
}

func (s *commentService) checkCommentRateLimit(ctx context.Context, userID uuid.UUID) (func(), error) {
	noop := func() {}
	if s.redisClient == nil {
		return noop, nil
	}

	globalWindow := ratelimiter.GetDurationFromEnv("RATE_LIMIT_GLOBAL", 2*time.Second)
	commentWindow := ratelimiter.GetDurationFromEnv("RATE_LIMIT_COMMENT", 10*time.Second)

	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal, globalWindow)
	if err != nil {
		return noop, fmt.Errorf("%w: rate limit check failed: %v", apperror.ErrInternal, err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		return noop, &ratelimiter.RateLimitError{
			Message:    "you are doing that too often, slow down",
			RetryAfter: ttl,
		}
	}

	allowed, err = ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeComment, commentWindow)
	if err != nil {
		return noop, fmt.Errorf("%w: rate limit check failed: %v", apperror.ErrInternal, err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeComment)
		return noop, &ratelimiter.RateLimitError{
			Message:    "please wait before posting another comment",
			RetryAfter: ttl,
		}
	}

	return func() {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeComment)
	}, nil
}

func (s *commentService) mapToResponse(c *entity.Comment, replyCount int64, replies []commentDto.CommentResponse) commentDto.CommentResponse {
	if replies == nil {
		replies = []commentDto.CommentResponse{}
	}
	return commentDto.CommentResponse{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		User: dto.UserBrief{
			ID:       c.UserID,
			Username: c.User.Username,
		},
		Content:    c.Content,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		ParentID:   c.ParentID,
		IsApproved: c.IsApproved,
		IsReply:    c.IsReply(),
		ReplyCount: replyCount,
		Replies:    replies,
	}
}
