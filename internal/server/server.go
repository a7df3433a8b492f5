package server

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/inkwell-cms/inkwell/internal/middleware"
	"github.com/inkwell-cms/inkwell/pkg/storage"

	articleHttp "github.com/inkwell-cms/inkwell/internal/modules/article/delivery/http"
	articleRepo "github.com/inkwell-cms/inkwell/internal/modules/article/repository"
	articleService "github.com/inkwell-cms/inkwell/internal/modules/article/service"

	categoryHttp "github.com/inkwell-cms/inkwell/internal/modules/category/delivery/http"
	categoryRepo "github.com/inkwell-cms/inkwell/internal/modules/category/repository"
	categoryService "github.com/inkwell-cms/inkwell/internal/modules/category/service"

	commentHttp "github.com/inkwell-cms/inkwell/internal/modules/comment/delivery/http"
	commentRepo "github.com/inkwell-cms/inkwell/internal/modules/comment/repository"
	commentService "github.com/inkwell-cms/inkwell/internal/modules/comment/service"

	profileHttp "github.com/inkwell-cms/inkwell/internal/modules/profile/delivery/http"
	profileRepo "github.com/inkwell-cms/inkwell/internal/modules/profile/repository"
	profileService "github.com/inkwell-cms/inkwell/internal/modules/profile/service"

	searchService "github.com/inkwell-cms/inkwell/internal/modules/search/service"

	tagHttp "github.com/inkwell-cms/inkwell/internal/modules/tag/delivery/http"
	tagRepo "github.com/inkwell-cms/inkwell/internal/modules/tag/repository"
	tagService "github.com/inkwell-cms/inkwell/internal/modules/tag/service"

	userRepo "github.com/inkwell-cms/inkwell/internal/modules/user/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)
	profiles := profileRepo.NewProfileRepository(db)
	categories := categoryRepo.NewCategoryRepository(db)
	tags := tagRepo.NewTagRepository(db)
	articles := articleRepo.NewArticleRepository(db)
	comments := commentRepo.NewCommentRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary storage disabled: %v", err)
		imageStorage = nil
	}

	meiliHost := os.Getenv("MEILISEARCH_HOST")
	if meiliHost == "" {
		meiliHost = "http://localhost:7700"
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}

	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")))
	meiliSvc := searchService.NewMeiliSearchService(meiliClient)

	profileSvc := profileService.NewProfileService(profiles, imageStorage)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	categorySvc := categoryService.NewCategoryService(categories)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	tagSvc := tagService.NewTagService(tags)

	articleSvc := articleService.NewArticleService(articles, categories, tags, users, profiles, meiliSvc, redisClient)
	articleHandler := articleHttp.NewArticleHandler(articleSvc)

	tagHandler := tagHttp.NewTagHandler(tagSvc, articleSvc)

	commentSvc := commentService.NewCommentService(comments, articles, users, profiles, redisClient)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(profiles)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.GET("/articles", articleHandler.GetAllArticles)
	api.GET("/articles/search", articleHandler.SearchArticles)
	api.GET("/articles/slug/:slug", articleHandler.GetArticleBySlug)
	api.GET("/articles/:id/comments", commentHandler.GetArticleComments)
	api.GET("/comments", commentHandler.ListComments)
	api.GET("/categories", categoryHandler.GetAllCategories)
	api.GET("/tags", tagHandler.GetAllTags)
	api.GET("/tags/:slug/articles", tagHandler.GetTagArticles)
	api.GET("/profiles/user-types", profileHandler.GetUserTypes)
	api.GET("/profiles/:username", profileHandler.GetProfileByUsername)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Article routes
		protected.POST("/articles", articleHandler.CreateArticle)
		protected.GET("/articles/me", articleHandler.GetMyArticles)
		protected.PUT("/articles/:id", articleHandler.UpdateArticle)
		protected.DELETE("/articles/:id", articleHandler.DeleteArticle)

		// Comment routes
		protected.POST("/articles/:id/comments", commentHandler.CreateArticleComment)
		protected.POST("/comments", commentHandler.CreateComment)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		// Profile routes
		protected.GET("/profiles/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profiles", profileHandler.UpdateProfile)
		protected.POST("/profiles/avatar", profileHandler.UploadAvatar)

		// Moderation and catalog management, admin gated
		moderation := protected.Group("/comments", authMiddleware.RequireAdmin())
		{
			moderation.GET("/pending", commentHandler.GetPendingComments)
			moderation.POST("/:id/approve", commentHandler.ApproveComment)
			moderation.POST("/:id/reject", commentHandler.RejectComment)
		}

		categoryAdmin := protected.Group("/categories", authMiddleware.RequireAdmin())
		{
			categoryAdmin.POST("", categoryHandler.CreateCategory)
			categoryAdmin.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		tagAdmin := protected.Group("/tags", authMiddleware.RequireAdmin())
		{
			tagAdmin.POST("", tagHandler.CreateTag)
			tagAdmin.DELETE("/:id", tagHandler.DeleteTag)
		}

		profileAdmin := protected.Group("/profiles", authMiddleware.RequireAdmin())
		{
			profileAdmin.PATCH("/:id/user-type", profileHandler.ChangeUserType)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
