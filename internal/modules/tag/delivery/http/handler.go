package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	article "github.com/inkwell-cms/inkwell/internal/modules/article/service"
	"github.com/inkwell-cms/inkwell/internal/modules/tag/dto"
	tag "github.com/inkwell-cms/inkwell/internal/modules/tag/service"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type TagHandler struct {
	service        tag.TagService
	articleService article.ArticleService
}

func NewTagHandler(service tag.TagService, articleService article.ArticleService) *TagHandler {
	return &TagHandler{service: service, articleService: articleService}
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *TagHandler) GetAllTags(c *gin.Context) {
	res, err := h.service.GetAllTags(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetTagArticles returns the tag together with the articles carrying it.
func (h *TagHandler) GetTagArticles(c *gin.Context) {
	slug := c.Param("slug")

	tagRes, err := h.service.GetTagBySlug(c.Request.Context(), slug)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articles, err := h.articleService.GetArticlesByTagSlug(c.Request.Context(), slug)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag":      tagRes,
		"articles": articles,
	})
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}

	if err := h.service.DeleteTag(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tag deleted successfully"})
}
