package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/entity"
	articleDto "github.com/inkwell-cms/inkwell/internal/modules/article/dto"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/inkwell-cms/inkwell/pkg/dto"
	"github.com/inkwell-cms/inkwell/pkg/ratelimiter"
	"github.com/inkwell-cms/inkwell/pkg/slug"
)

// generateUniqueSlug derives a slug from the title and appends a uuid
// fragment when the base slug is already taken.
func (s *articleService) generateUniqueSlug(ctx context.Context, title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "article"
	}

	if _, err := s.articleRepo.FindBySlug(ctx, base); err != nil {
		return base
	}

	fragment := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%s", base, fragment)
}

// checkCreateRateLimit applies the global and article-scoped cooldowns.
// The returned cleanup rolls the cooldown keys back so a failed write
// doesn't burn the window.
func (s *articleService) checkCreateRateLimit(ctx context.Context, userID uuid.UUID) (func(), error) {
	noop := func() {}
	if s.redisClient == nil {
		return noop, nil
	}

	globalWindow := ratelimiter.GetDurationFromEnv("RATE_LIMIT_GLOBAL", 2*time.Second)
	articleWindow := ratelimiter.GetDurationFromEnv("RATE_LIMIT_ARTICLE", time.Minute)

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

	allowed, err = ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeArticle, articleWindow)
	if err != nil {
		return noop, fmt.Errorf("%w: rate limit check failed: %v", apperror.ErrInternal, err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeArticle)
		return noop, &ratelimiter.RateLimitError{
			Message:    "please wait before publishing another article",
			RetryAfter: ttl,
		}
	}

	return func() {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeGlobal)
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeArticle)
	}, nil
}

func mapToResponse(article *entity.Article) *articleDto.ArticleResponse {
	tags := make([]articleDto.TagBrief, 0, len(article.Tags))
	for _, t := range article.Tags {
		tags = append(tags, articleDto.TagBrief{
			ID:   t.ID,
			Name: t.Name,
			Slug: t.Slug,
		})
	}

	return &articleDto.ArticleResponse{
		ID:      article.ID,
		Title:   article.Title,
		Slug:    article.Slug,
		Content: article.Content,
		Author: dto.UserBrief{
			ID:       article.AuthorID,
			Username: article.Author.Username,
		},
		Category:     article.CategoryID,
		CategoryName: article.Category.Name,
		Tags:         tags,
		CreatedAt:    article.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    article.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAllToResponse(articles []*entity.Article) []articleDto.ArticleResponse {
	res := make([]articleDto.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		res = append(res, *mapToResponse(a))
	}
	return res
}
