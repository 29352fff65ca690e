package models

import "time"

// SessionType is the delivery format of a session.
type SessionType string

const (
	SessionIndividual SessionType = "individual"
	SessionGroup      SessionType = "group"
	SessionOnline     SessionType = "online"
	SessionOffline    SessionType = "offline"
)

// SessionTypes lists every valid session type.
var SessionTypes = []string{
	string(SessionIndividual), string(SessionGroup),
	string(SessionOnline), string(SessionOffline),
}

// SessionCategories lists every valid session category.
var SessionCategories = []string{
	"dream_interpretation", "dream_analysis", "lucid_dreaming",
	"sleep_coaching", "meditation", "mindfulness", "therapy",
	"consultation", "other",
}

// Session is a bookable offering published by an expert.
type Session struct {
	ID                  int        `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Type                string     `json:"type"`
	Category            string     `json:"category"`
	ExpertID            int        `json:"expertId"`
	Expert              *ExpertRef `json:"expert,omitempty"`
	Duration            int        `json:"duration"`
	MaxParticipants     int        `json:"maxParticipants"`
	CurrentParticipants int        `json:"currentParticipants"`
	Price               float64    `json:"price"`
	Currency            string     `json:"currency"`
	Thumbnail           string     `json:"thumbnail,omitempty"`
	Images              StringList `json:"images"`
	Tags                StringList `json:"tags"`
	IsActive            bool       `json:"isActive"`
	IsPublished         bool       `json:"isPublished"`
	PublishedAt         *time.Time `json:"publishedAt,omitempty"`
	Views               int        `json:"views"`
	Bookings            int        `json:"bookings"`
	Rating              Rating     `json:"rating"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// SessionRef is the projection embedded when a session reference is populated.
type SessionRef struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// CreateSessionRequest carries the form fields accepted when creating a session.
type CreateSessionRequest struct {
	Title           string
	Description     string
	Type            string
	Category        string
	ExpertID        int
	Duration        int
	MaxParticipants int
	Price           float64
	Currency        string
	Thumbnail       string
	Images          StringList
	Tags            StringList
}

// UpdateSessionRequest carries the optional fields of a session update.
type UpdateSessionRequest struct {
	Title           *string
	Description     *string
	Type            *string
	Category        *string
	ExpertID        *int
	Duration        *int
	MaxParticipants *int
	Price           *float64
	Currency        *string
	Thumbnail       *string
	Images          StringList
	Tags            StringList
}

// SessionListFilter narrows a session list query.
type SessionListFilter struct {
	ListParams
	Type        string
	Category    string
	ExpertID    int
	IsActive    *bool
	IsPublished *bool
}
