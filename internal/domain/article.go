package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArticleSort selects the ordering used when listing articles.
type ArticleSort string

const (
	// SortByDate orders by publish date, newest first.
	SortByDate ArticleSort = "date"
	// SortByLikes orders by like count, most liked first.
	SortByLikes ArticleSort = "likes"
	// SortByTitle orders by title, lexicographically ascending.
	SortByTitle ArticleSort = "title"
)

// ParseArticleSort maps a query value to a sort key.
// Empty and unknown values fall back to SortByDate.
func ParseArticleSort(s string) ArticleSort {
	switch ArticleSort(strings.ToLower(strings.TrimSpace(s))) {
	case SortByLikes:
		return SortByLikes
	case SortByTitle:
		return SortByTitle
	default:
		return SortByDate
	}
}

// Article is a short piece of published content.
//
// Likes only ever grow and only through the store's atomic increment.
// AuthorID is nil for articles created while authentication is disabled and
// never changes once set.
type Article struct {
	ID          uuid.UUID
	Title       string
	Description string
	Text        string
	ImageURL    *string
	VideoURL    *string
	Likes       int
	PublishDate time.Time
	AuthorID    *uuid.UUID
	UpdatedAt   time.Time

	// AuthorEmail is filled in on request when listing; it is not persisted.
	AuthorEmail string
}

// NewArticle builds a validated article with zero likes published at now.
// Empty optional URLs are treated as absent.
func NewArticle(title, description, text string, imageURL, videoURL *string, authorID *uuid.UUID, now time.Time) (*Article, error) {
	a := &Article{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Text:        text,
		ImageURL:    optional(imageURL),
		VideoURL:    optional(videoURL),
		Likes:       0,
		PublishDate: now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if authorID != nil && *authorID != uuid.Nil {
		id := *authorID
		a.AuthorID = &id
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the invariants every stored article must hold.
// All missing required fields are reported together.
func (a *Article) Validate() error {
	var missing []string
	if isBlank(a.Title) {
		missing = append(missing, "title")
	}
	if isBlank(a.Description) {
		missing = append(missing, "description")
	}
	if isBlank(a.Text) {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		return NewValidationError(strings.Join(missing, ", "), "is required", nil)
	}
	if a.Likes < 0 {
		return NewValidationError("likes", "cannot be negative", nil)
	}
	return nil
}

// IsAuthoredBy reports whether userID is the recorded author.
// Articles without an author belong to nobody.
func (a *Article) IsAuthoredBy(userID uuid.UUID) bool {
	return a.AuthorID != nil && userID != uuid.Nil && *a.AuthorID == userID
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() *Article {
	c := *a
	c.ImageURL = cloneString(a.ImageURL)
	c.VideoURL = cloneString(a.VideoURL)
	if a.AuthorID != nil {
		id := *a.AuthorID
		c.AuthorID = &id
	}
	return &c
}

// ArticlePatch is a partial update. A nil field was not supplied and keeps
// its stored value; a non-nil field replaces it, even when empty.
type ArticlePatch struct {
	Title       *string
	Description *string
	Text        *string
	ImageURL    *string
	VideoURL    *string
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p ArticlePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Text == nil &&
		p.ImageURL == nil && p.VideoURL == nil
}

// ApplyPatch returns a copy of the article with the patch applied.
// Required fields supplied as empty strings fail validation; optional URLs
// supplied as empty strings are cleared. The receiver is never modified.
func (a *Article) ApplyPatch(p ArticlePatch, now time.Time) (*Article, error) {
	next := a.Clone()
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Text != nil {
		next.Text = *p.Text
	}
	if p.ImageURL != nil {
		next.ImageURL = optional(p.ImageURL)
	}
	if p.VideoURL != nil {
		next.VideoURL = optional(p.VideoURL)
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = now.UTC()
	return next, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// optional copies s, mapping empty strings to nil.
func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return cloneString(s)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
