package article

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell-cms/inkwell/internal/authz"
	"github.com/inkwell-cms/inkwell/internal/entity"
	articleDto "github.com/inkwell-cms/inkwell/internal/modules/article/dto"
	articleRepo "github.com/inkwell-cms/inkwell/internal/modules/article/repository"
	categoryRepo "github.com/inkwell-cms/inkwell/internal/modules/category/repository"
	profileRepo "github.com/inkwell-cms/inkwell/internal/modules/profile/repository"
	search "github.com/inkwell-cms/inkwell/internal/modules/search/service"
	tagRepo "github.com/inkwell-cms/inkwell/internal/modules/tag/repository"
	userRepo "github.com/inkwell-cms/inkwell/internal/modules/user/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

type ArticleService interface {
	CreateArticle(ctx context.Context, userID uuid.UUID, req articleDto.CreateArticleRequest) (*articleDto.ArticleResponse, error)
	GetAllArticles(ctx context.Context, filter articleDto.ArticleFilter) ([]articleDto.ArticleResponse, error)
	GetArticleBySlug(ctx context.Context, slug string) (*articleDto.ArticleResponse, error)
	GetMyArticles(ctx context.Context, userID uuid.UUID) ([]articleDto.ArticleResponse, error)
	GetArticlesByTagSlug(ctx context.Context, tagSlug string) ([]articleDto.ArticleResponse, error)
	UpdateArticle(ctx context.Context, userID uuid.UUID, articleID uuid.UUID, req articleDto.UpdateArticleRequest) (*articleDto.ArticleResponse, error)
	DeleteArticle(ctx context.Context, userID uuid.UUID, articleID uuid.UUID) error
	SearchArticles(ctx context.Context, query string) ([]articleDto.ArticleResponse, error)
}

type articleService struct {
	articleRepo  articleRepo.ArticleRepository
	categoryRepo categoryRepo.CategoryRepository
	tagRepo      tagRepo.TagRepository
	userRepo     userRepo.UserRepository
	profileRepo  profileRepo.ProfileRepository
	searchSvc    search.SearchService
	redisClient  *redis.Client
}

func NewArticleService(
	articleRepo articleRepo.ArticleRepository,
	categoryRepo categoryRepo.CategoryRepository,
	tagRepo tagRepo.TagRepository,
	userRepo userRepo.UserRepository,
	profileRepo profileRepo.ProfileRepository,
	searchSvc search.SearchService,
	redisClient *redis.Client,
) ArticleService {
	return &articleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		searchSvc:    searchSvc,
		redisClient:  redisClient,
	}
}

func (s *articleService) CreateArticle(ctx context.Context, userID uuid.UUID, req articleDto.CreateArticleRequest) (*articleDto.ArticleResponse, error) {
	cleanup, err := s.checkCreateRateLimit(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		cleanup()
		return nil, err
	}

	// Unknown category fails the write
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		cleanup()
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown category %s", apperror.ErrValidation, req.CategoryID)
		}
		return nil, err
	}

	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		cleanup()
		return nil, err
	}

	article := &entity.Article{
		Title:      req.Title,
		Slug:       s.generateUniqueSlug(ctx, req.Title),
		Content:    req.Content,
		AuthorID:   userID,
		CategoryID: req.CategoryID,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		cleanup()
		return nil, err
	}

	// Tag set replacement is a single full-set operation
	if err := s.articleRepo.ReplaceTags(ctx, article, tags); err != nil {
		return nil, err
	}

	created, err := s.articleRepo.FindByID(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	s.indexArticle(created)

	return mapToResponse(created), nil
}

func (s *articleService) GetAllArticles(ctx context.Context, filter articleDto.ArticleFilter) ([]articleDto.ArticleResponse, error) {
	articles, err := s.articleRepo.FindAll(ctx, filter.Category, filter.Tag)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(articles), nil
}

func (s *articleService) GetArticleBySlug(ctx context.Context, slug string) (*articleDto.ArticleResponse, error) {
	article, err := s.articleRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return mapToResponse(article), nil
}

func (s *articleService) GetMyArticles(ctx context.Context, userID uuid.UUID) ([]articleDto.ArticleResponse, error) {
	articles, err := s.articleRepo.FindByAuthorID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(articles), nil
}

func (s *articleService) GetArticlesByTagSlug(ctx context.Context, tagSlug string) ([]articleDto.ArticleResponse, error) {
	articles, err := s.articleRepo.FindAll(ctx, "", tagSlug)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(articles), nil
}

func (s *articleService) UpdateArticle(ctx context.Context, userID uuid.UUID, articleID uuid.UUID, req articleDto.UpdateArticleRequest) (*articleDto.ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, article); err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		// Slug stays as minted at creation, only the display title moves
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown category %s", apperror.ErrValidation, *req.CategoryID)
			}
			return nil, err
		}
		article.CategoryID = *req.CategoryID
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}

	if req.TagIDs != nil {
		tags, err := s.resolveTags(ctx, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.articleRepo.ReplaceTags(ctx, article, tags); err != nil {
			return nil, err
		}
	}

	updated, err := s.articleRepo.FindByID(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	s.indexArticle(updated)

	return mapToResponse(updated), nil
}

func (s *articleService) DeleteArticle(ctx context.Context, userID uuid.UUID, articleID uuid.UUID) error {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, userID, article); err != nil {
		return err
	}

	if err := s.articleRepo.Delete(ctx, articleID); err != nil {
		return err
	}

	if s.searchSvc != nil {
		_ = s.searchSvc.DeleteArticle(articleID.String())
	}

	return nil
}

func (s *articleService) SearchArticles(ctx context.Context, query string) ([]articleDto.ArticleResponse, error) {
	if s.searchSvc == nil {
		return nil, fmt.Errorf("%w: search is not configured", apperror.ErrInternal)
	}

	hitIDs, err := s.searchSvc.SearchArticles(query, 20)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(hitIDs))
	for _, hit := range hitIDs {
		id, err := uuid.Parse(hit)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	articles, err := s.articleRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Preserve index ranking
	byID := make(map[uuid.UUID]*entity.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	ordered := make([]*entity.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}

	return mapAllToResponse(ordered), nil
}

// authorize loads the acting profile and applies the ownership policy.
func (s *articleService) authorize(ctx context.Context, userID uuid.UUID, article *entity.Article) error {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if !authz.CanModify(profile, userID, article) {
		return fmt.Errorf("%w: you can only modify your own article", apperror.ErrForbidden)
	}
	return nil
}

func (s *articleService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]entity.Tag, error) {
	if len(ids) == 0 {
		return []entity.Tag{}, nil
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	tags, err := s.tagRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, fmt.Errorf("%w: one or more tag ids are unknown", apperror.ErrValidation)
	}
	return tags, nil
}

func (s *articleService) indexArticle(article *entity.Article) {
	if s.searchSvc == nil {
		return
	}
	if err := s.searchSvc.IndexArticle(article); err != nil {
		fmt.Printf("Failed to index article: %v\n", err)
	}
}
