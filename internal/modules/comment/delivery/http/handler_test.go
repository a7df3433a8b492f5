package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	commentDto "github.com/inkwell-cms/inkwell/internal/modules/comment/dto"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommentService struct {
	created  *commentDto.CommentResponse
	err      error
	lastArgs struct {
		userID    uuid.UUID
		articleID uuid.UUID
		req       commentDto.CreateCommentRequest
	}
}

func (s *stubCommentService) CreateComment(ctx context.Context, userID uuid.UUID, articleID uuid.UUID, req commentDto.CreateCommentRequest) (*commentDto.CommentResponse, error) {
	s.lastArgs.userID = userID
	s.lastArgs.articleID = articleID
	s.lastArgs.req = req
	return s.created, s.err
}

func (s *stubCommentService) GetArticleComments(ctx context.Context, articleID uuid.UUID) ([]commentDto.CommentResponse, error) {
	return nil, s.err
}

func (s *stubCommentService) ListComments(ctx context.Context, articleID *uuid.UUID, rootsOnly bool) ([]commentDto.CommentResponse, error) {
	return []commentDto.CommentResponse{}, s.err
}

func (s *stubCommentService) GetPendingComments(ctx context.Context) ([]commentDto.CommentResponse, error) {
	return nil, s.err
}

func (s *stubCommentService) ModerateComment(ctx context.Context, commentID uuid.UUID, approved bool) (*commentDto.CommentResponse, error) {
	return s.created, s.err
}

func (s *stubCommentService) DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error {
	return s.err
}

func setupHandlerTest(stub *stubCommentService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewCommentHandler(stub)

	authed := router.Group("", func(c *gin.Context) {
		c.Set("user_id", userID.String())
	})
	authed.POST("/comments", h.CreateComment)
	authed.DELETE("/comments/:id", h.DeleteComment)
	router.GET("/comments", h.ListComments)
	return router
}

func TestCreateCommentHandler(t *testing.T) {
	userID := uuid.New()
	articleID := uuid.New()
	stub := &stubCommentService{
		created: &commentDto.CommentResponse{ID: uuid.New(), ArticleID: articleID, Content: "hello"},
	}
	router := setupHandlerTest(stub, userID)

	body := `{"article":"` + articleID.String() + `","content":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, userID, stub.lastArgs.userID)
	assert.Equal(t, articleID, stub.lastArgs.articleID)
	assert.Equal(t, "hello", stub.lastArgs.req.Content)
}

func TestCreateCommentHandlerMissingContent(t *testing.T) {
	router := setupHandlerTest(&stubCommentService{}, uuid.New())

	body := `{"article":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Content is required")
}

func TestCreateCommentHandlerInvalidReference(t *testing.T) {
	stub := &stubCommentService{err: apperror.ErrInvalidReference}
	router := setupHandlerTest(stub, uuid.New())

	body := `{"article":"` + uuid.NewString() + `","content":"x","parent":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteCommentHandlerForbidden(t *testing.T) {
	stub := &stubCommentService{err: apperror.ErrForbidden}
	router := setupHandlerTest(stub, uuid.New())

	req := httptest.NewRequest(http.MethodDelete, "/comments/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListCommentsHandlerBadArticleID(t *testing.T) {
	router := setupHandlerTest(&stubCommentService{}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/comments?article=not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
