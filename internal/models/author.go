package models

import "time"

// Author writes educational content. Referenced by Education and Content.
type Author struct {
	ID             int        `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Bio            string     `json:"bio"`
	ShortBio       string     `json:"shortBio,omitempty"`
	ProfileImage   string     `json:"profileImage,omitempty"`
	CoverImage     string     `json:"coverImage,omitempty"`
	Specialization StringList `json:"specialization"`
	Languages      StringList `json:"languages"`
	IsActive       bool       `json:"isActive"`
	IsVerified     bool       `json:"isVerified"`
	VerifiedAt     *time.Time `json:"verifiedAt,omitempty"`
	Rating         Rating     `json:"rating"`
	EducationCount int        `json:"educationCount"`
	TotalViews     int        `json:"totalViews"`
	TotalLikes     int        `json:"totalLikes"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// FullName returns the author's display name.
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// AuthorRef is the projection embedded when an author reference is populated.
type AuthorRef struct {
	ID           int    `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// CreateAuthorRequest carries the form fields accepted when creating an author.
// Specialization and Languages arrive as comma-separated strings.
type CreateAuthorRequest struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Bio            string
	ShortBio       string
	ProfileImage   string
	CoverImage     string
	Specialization StringList
	Languages      StringList
}

// UpdateAuthorRequest carries the optional fields of an author update.
type UpdateAuthorRequest struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Bio            *string
	ShortBio       *string
	ProfileImage   *string
	CoverImage     *string
	Specialization StringList
	Languages      StringList
}

// AuthorListFilter narrows an author list query.
type AuthorListFilter struct {
	ListParams
	Specialization string
	IsVerified     *bool
	IsActive       *bool
}
