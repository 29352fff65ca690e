package models

import "time"

// BookCategories lists every valid book category.
var BookCategories = []string{
	"dream_psychology", "symbol_interpretation", "lucid_dreaming",
	"sleep_health", "meditation", "mindfulness", "psychology",
	"spirituality", "self_help", "biography", "fiction", "other",
}

// Book is a catalogued title, optionally with digital assets attached.
// Author is a display name, not an Author entity reference.
type Book struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Subtitle         string     `json:"subtitle,omitempty"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription,omitempty"`
	Author           string     `json:"author"`
	ISBN             string     `json:"isbn,omitempty"`
	Publisher        string     `json:"publisher,omitempty"`
	PublicationYear  int        `json:"publicationYear,omitempty"`
	Language         string     `json:"language"`
	Category         string     `json:"category"`
	CoverImage       string     `json:"coverImage,omitempty"`
	Images           StringList `json:"images"`
	PDFURL           string     `json:"pdfUrl,omitempty"`
	EpubURL          string     `json:"epubUrl,omitempty"`
	AudiobookURL     string     `json:"audiobookUrl,omitempty"`
	PageCount        int        `json:"pageCount,omitempty"`
	Tags             StringList `json:"tags"`
	Price            float64    `json:"price"`
	Currency         string     `json:"currency"`
	IsPremium        bool       `json:"isPremium"`
	IsActive         bool       `json:"isActive"`
	IsPublished      bool       `json:"isPublished"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	Views            int        `json:"views"`
	Downloads        int        `json:"downloads"`
	Likes            int        `json:"likes"`
	Rating           Rating     `json:"rating"`
	DisplayOrder     int        `json:"order"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CreateBookRequest carries the form fields accepted when creating a book.
type CreateBookRequest struct {
	Title            string
	Subtitle         string
	Description      string
	ShortDescription string
	Author           string
	ISBN             string
	Publisher        string
	PublicationYear  int
	Language         string
	Category         string
	CoverImage       string
	Images           StringList
	PDFURL           string
	EpubURL          string
	AudiobookURL     string
	PageCount        int
	Tags             StringList
	Price            float64
	Currency         string
	IsPremium        bool
}

// UpdateBookRequest carries the optional fields of a book update.
type UpdateBookRequest struct {
	Title            *string
	Subtitle         *string
	Description      *string
	ShortDescription *string
	Author           *string
	ISBN             *string
	Publisher        *string
	PublicationYear  *int
	Language         *string
	Category         *string
	CoverImage       *string
	Images           StringList
	PDFURL           *string
	EpubURL          *string
	AudiobookURL     *string
	PageCount        *int
	Tags             StringList
	Price            *float64
	Currency         *string
	IsPremium        *bool
}

// BookListFilter narrows a book list query.
type BookListFilter struct {
	ListParams
	Category    string
	IsPremium   *bool
	IsActive    *bool
	IsPublished *bool
}
