package models

import (
	"database/sql/driver"
	"time"
)

// ContentTypes lists every valid content type.
var ContentTypes = []string{
	"article", "guide", "tutorial", "research", "news", "interview",
	"review", "meditation", "exercise", "story", "faq", "other",
}

// ContentCategories lists every valid content category.
var ContentCategories = []string{
	"dream_interpretation", "lucid_dreaming", "sleep_science",
	"psychology", "wellness", "meditation", "spirituality",
	"research", "community", "platform", "other",
}

// CommentStatuses lists the moderation states of a comment.
var CommentStatuses = []string{"pending", "approved", "rejected"}

// Comment is a reader comment held on a content piece pending moderation.
type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentList is a JSON column holding the comments of a content piece.
type CommentList []Comment

// Value implements driver.Valuer.
func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

// Scan implements sql.Scanner.
func (l *CommentList) Scan(src any) error {
	return jsonScan(l, src)
}

// Content is an editorial piece such as an article or a guide.
type Content struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Body          string     `json:"body"`
	Type          string     `json:"type"`
	Category      string     `json:"category"`
	AuthorID      int        `json:"-"`
	Author        *AuthorRef `json:"author,omitempty"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Images        StringList `json:"images"`
	Tags          StringList `json:"tags"`
	Keywords      StringList `json:"keywords"`
	ReadingTime   int        `json:"readingTime,omitempty"`
	WordCount     int        `json:"wordCount,omitempty"`
	IsPremium     bool       `json:"isPremium"`
	IsActive      bool       `json:"isActive"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Comments      CommentList `json:"comments"`
	Views         int         `json:"views"`
	Likes         int         `json:"likes"`
	Shares        int         `json:"shares"`
	DisplayOrder  int        `json:"order"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateContentRequest carries the fields accepted when creating content.
// Slug is derived from the title when left empty.
type CreateContentRequest struct {
	Title         string
	Slug          string
	Excerpt       string
	Body          string
	Type          string
	Category      string
	AuthorID      int
	FeaturedImage string
	Images        StringList
	Tags          StringList
	Keywords      StringList
	ReadingTime   int
	IsPremium     bool
}

// UpdateContentRequest carries the optional fields of a content update.
type UpdateContentRequest struct {
	Title         *string
	Slug          *string
	Excerpt       *string
	Body          *string
	Type          *string
	Category      *string
	AuthorID      *int
	FeaturedImage *string
	Images        StringList
	Tags          StringList
	Keywords      StringList
	ReadingTime   *int
	IsPremium     *bool
}

// ContentListFilter narrows a content list query.
type ContentListFilter struct {
	ListParams
	Type        string
	Category    string
	AuthorID    int
	IsPremium   *bool
	IsActive    *bool
	IsPublished *bool
}
