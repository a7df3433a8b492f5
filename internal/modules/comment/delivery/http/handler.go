package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	commentDto "github.com/inkwell-cms/inkwell/internal/modules/comment/dto"
	comment "github.com/inkwell-cms/inkwell/internal/modules/comment/service"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/validator"
)

type CommentHandler struct {
	commentService comment.CommentService
}

func NewCommentHandler(commentService comment.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment takes the article id from the request body.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req commentDto.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.commentService.CreateComment(c.Request.Context(), userID, req.ArticleID, commentDto.CreateCommentRequest{
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// CreateArticleComment takes the article id from the path.
func (h *CommentHandler) CreateArticleComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	var req commentDto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.commentService.CreateComment(c.Request.Context(), userID, articleID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	var filter commentDto.CommentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	var articleID *uuid.UUID
	if filter.Article != "" {
		id, err := uuid.Parse(filter.Article)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
			return
		}
		articleID = &id
	}

	rootsOnly := filter.Parent == "null"

	res, err := h.commentService.ListComments(c.Request.Context(), articleID, rootsOnly)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) GetArticleComments(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	res, err := h.commentService.GetArticleComments(c.Request.Context(), articleID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) GetPendingComments(c *gin.Context) {
	res, err := h.commentService.GetPendingComments(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) ApproveComment(c *gin.Context) {
	h.moderate(c, true)
}

func (h *CommentHandler) RejectComment(c *gin.Context) {
	h.moderate(c, false)
}

func (h *CommentHandler) moderate(c *gin.Context, approved bool) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	res, err := h.commentService.ModerateComment(c.Request.Context(), commentID, approved)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}
