package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/quill-api/internal/api/shared"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/platform/logger"
	"github.com/phrazzld/quill-api/internal/service/article"
)

// ArticleHandler serves the article endpoints.
type ArticleHandler struct {
	articleService article.Service
}

// NewArticleHandler creates an ArticleHandler.
func NewArticleHandler(articleService article.Service) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// CreateArticle handles POST /api/articles.
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.articleService.Create(r.Context(), callerFromContext(r), article.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create article")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, articleToResponse(created, false))
}

// ListArticles handles GET /api/articles.
//
// Query parameters:
//   - sort: date (default), likes or title
//   - expand: "author" replaces author ids with {id, email}
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	opts := article.ListOptions{
		Sort:         domain.ParseArticleSort(r.URL.Query().Get("sort")),
		ExpandAuthor: wantsExpand(r, "author"),
	}

	articles, err := h.articleService.List(r.Context(), opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list articles")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, articlesToResponse(articles, opts.ExpandAuthor))
}

// LikeArticle handles POST /api/articles/{id}/like.
func (h *ArticleHandler) LikeArticle(w http.ResponseWriter, r *http.Request) {
	articleID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	liked, err := h.articleService.Like(r.Context(), callerFromContext(r), articleID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to like article")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, articleToResponse(liked, false))
}

// UpdateArticle handles PUT /api/articles/{id}.
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	articleID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.articleService.Update(r.Context(), callerFromContext(r), articleID, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update article")
		return
	}

	logger.FromContextOrDefault(r.Context(), slog.Default()).
		Debug("article updated via api", "article_id", articleID)
	shared.RespondWithJSON(w, r, http.StatusOK, articleToResponse(updated, false))
}
