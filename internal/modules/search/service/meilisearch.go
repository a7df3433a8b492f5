package search

import (
	"encoding/json"
	"html"
	"log"
	"strings"

	"github.com/inkwell-cms/inkwell/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const articlesIndex = "articles"

type SearchService interface {
	IndexArticle(article *entity.Article) error
	DeleteArticle(id string) error
	// SearchArticles returns matching article ids, best match first.
	SearchArticles(query string, limit int64) ([]string, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"category_id", "tag_slugs"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(articlesIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update articles filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	if _, err := s.client.Index(articlesIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update articles sortable attributes: %v", err)
	}
}

type meiliArticleDoc struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Slug       string   `json:"slug"`
	Author     string   `json:"author"`
	CategoryID string   `json:"category_id"`
	Category   string   `json:"category"`
	TagSlugs   []string `json:"tag_slugs"`
	CreatedAt  int64    `json:"created_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	// Block tags become spaces so adjacent words don't merge
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexArticle(article *entity.Article) error {
	tagSlugs := make([]string, 0, len(article.Tags))
	for _, t := range article.Tags {
		tagSlugs = append(tagSlugs, t.Slug)
	}

	doc := meiliArticleDoc{
		ID:         article.ID.String(),
		Title:      article.Title,
		Content:    s.cleanContentForIndex(article.Content),
		Slug:       article.Slug,
		Author:     article.Author.Username,
		CategoryID: article.CategoryID.String(),
		Category:   article.Category.Name,
		TagSlugs:   tagSlugs,
		CreatedAt:  article.CreatedAt.Unix(),
	}

	task, err := s.client.Index(articlesIndex).AddDocuments([]meiliArticleDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed article %s, task id: %d", article.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteArticle(id string) error {
	_, err := s.client.Index(articlesIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchArticles(query string, limit int64) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(articlesIndex).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
