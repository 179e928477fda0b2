package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/quill-api/internal/domain"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
}

// CreateArticleRequest is the body of POST /api/articles.
type CreateArticleRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Text        string  `json:"text"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=2048"`
	VideoURL    *string `json:"videoUrl" validate:"omitempty,max=2048"`
}

// UpdateArticleRequest is the body of PUT /api/articles/{id}. Absent or null
// fields keep their stored value. Likes and author are not editable and are
// ignored if sent.
type UpdateArticleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Text        *string `json:"text"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=2048"`
	VideoURL    *string `json:"videoUrl" validate:"omitempty,max=2048"`
}

func (r UpdateArticleRequest) patch() domain.ArticlePatch {
	return domain.ArticlePatch{
		Title:       r.Title,
		Description: r.Description,
		Text:        r.Text,
		ImageURL:    r.ImageURL,
		VideoURL:    r.VideoURL,
	}
}

// AuthorResponse is the expanded form of an article's author.
type AuthorResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// ArticleResponse is the wire form of an article. Author holds the author id,
// an AuthorResponse when expanded, or is omitted for anonymous articles.
type ArticleResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Text        string    `json:"text"`
	ImageURL    *string   `json:"imageUrl"`
	VideoURL    *string   `json:"videoUrl"`
	Likes       int       `json:"likes"`
	PublishDate time.Time `json:"publishDate"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Author      any       `json:"author,omitempty"`
}

func articleToResponse(a *domain.Article, expandAuthor bool) ArticleResponse {
	resp := ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Text:        a.Text,
		ImageURL:    a.ImageURL,
		VideoURL:    a.VideoURL,
		Likes:       a.Likes,
		PublishDate: a.PublishDate,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.AuthorID != nil {
		if expandAuthor {
			resp.Author = AuthorResponse{ID: *a.AuthorID, Email: a.AuthorEmail}
		} else {
			resp.Author = a.AuthorID.String()
		}
	}
	return resp
}

func articlesToResponse(articles []*domain.Article, expandAuthor bool) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleToResponse(a, expandAuthor))
	}
	return out
}
