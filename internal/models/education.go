package models

import "time"

// EducationCategory is the closed category set for education records.
type EducationCategory string

const (
	EduDreamPsychology      EducationCategory = "dream_psychology"
	EduSymbolInterpretation EducationCategory = "symbol_interpretation"
	EduLucidDreaming        EducationCategory = "lucid_dreaming"
	EduDreamAnalysis        EducationCategory = "dream_analysis"
	EduSleepHealth          EducationCategory = "sleep_health"
	EduMeditation           EducationCategory = "meditation"
	EduMindfulness          EducationCategory = "mindfulness"
	EduOther                EducationCategory = "other"
)

// EducationCategories lists every valid education category.
var EducationCategories = []string{
	string(EduDreamPsychology), string(EduSymbolInterpretation),
	string(EduLucidDreaming), string(EduDreamAnalysis), string(EduSleepHealth),
	string(EduMeditation), string(EduMindfulness), string(EduOther),
}

// EducationLevel grades the difficulty of an education record.
type EducationLevel string

const (
	LevelBeginner     EducationLevel = "beginner"
	LevelIntermediate EducationLevel = "intermediate"
	LevelAdvanced     EducationLevel = "advanced"
)

// EducationLevels lists every valid education level.
var EducationLevels = []string{
	string(LevelBeginner), string(LevelIntermediate), string(LevelAdvanced),
}

// Education is a course-like learning record owned by an author.
type Education struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription,omitempty"`
	Content          string     `json:"content"`
	Category         string     `json:"category"`
	Level            string     `json:"level"`
	Duration         int        `json:"duration"`
	Thumbnail        string     `json:"thumbnail,omitempty"`
	Images           StringList `json:"images"`
	Tags             StringList `json:"tags"`
	AuthorID         int        `json:"authorId"`
	Author           *AuthorRef `json:"author,omitempty"`
	IsPremium        bool       `json:"isPremium"`
	IsActive         bool       `json:"isActive"`
	IsPublished      bool       `json:"isPublished"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	Views            int        `json:"views"`
	Likes            int        `json:"likes"`
	Rating           Rating     `json:"rating"`
	DisplayOrder     int        `json:"order"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CreateEducationRequest carries the form fields accepted when creating an
// education record. Tags arrive as a comma-separated string.
type CreateEducationRequest struct {
	Title            string
	Description      string
	ShortDescription string
	Content          string
	Category         string
	Level            string
	Duration         int
	Thumbnail        string
	Images           StringList
	Tags             StringList
	AuthorID         int
	IsPremium        bool
}

// UpdateEducationRequest carries the optional fields of an education update.
type UpdateEducationRequest struct {
	Title            *string
	Description      *string
	ShortDescription *string
	Content          *string
	Category         *string
	Level            *string
	Duration         *int
	Thumbnail        *string
	Images           StringList
	Tags             StringList
	AuthorID         *int
	IsPremium        *bool
}

// EducationListFilter narrows an education list query.
type EducationListFilter struct {
	ListParams
	Category    string
	Level       string
	AuthorID    int
	IsActive    *bool
	IsPublished *bool
}

// CountBucket is one row of a grouped count aggregate.
type CountBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TopAuthor is one row of the top-authors-by-education-count ranking.
type TopAuthor struct {
	AuthorID   int    `json:"authorId"`
	AuthorName string `json:"authorName"`
	Count      int    `json:"count"`
}

// EducationStats is the aggregate payload of the education stats endpoint.
type EducationStats struct {
	TotalEducations       int           `json:"totalEducations"`
	PublishedEducations   int           `json:"publishedEducations"`
	UnpublishedEducations int           `json:"unpublishedEducations"`
	ActiveEducations      int           `json:"activeEducations"`
	InactiveEducations    int           `json:"inactiveEducations"`
	PremiumEducations     int           `json:"premiumEducations"`
	FreeEducations        int           `json:"freeEducations"`
	CategoryDistribution  []CountBucket `json:"categoryDistribution"`
	LevelDistribution     []CountBucket `json:"levelDistribution"`
	TopAuthors            []TopAuthor   `json:"topAuthors"`
}
