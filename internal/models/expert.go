package models

import (
	"database/sql/driver"
	"time"
)

// Availability describes when an expert accepts appointments.
type Availability struct {
	Timezone    string     `json:"timezone"`
	StartHour   string     `json:"startHour"`
	EndHour     string     `json:"endHour"`
	WorkingDays StringList `json:"workingDays"`
	IsAvailable bool       `json:"isAvailable"`
}

// Value implements driver.Valuer.
func (a Availability) Value() (driver.Value, error) { return jsonValue(a) }

// Scan implements sql.Scanner.
func (a *Availability) Scan(src any) error { return jsonScan(a, src) }

// Pricing holds the expert's per-session-type prices.
type Pricing struct {
	Individual float64 `json:"individual"`
	Group      float64 `json:"group"`
	Online     float64 `json:"online"`
	Offline    float64 `json:"offline"`
}

// Value implements driver.Valuer.
func (p Pricing) Value() (driver.Value, error) { return jsonValue(p) }

// Scan implements sql.Scanner.
func (p *Pricing) Scan(src any) error { return jsonScan(p, src) }

// Expert provides sessions and appointments.
type Expert struct {
	ID              int          `json:"id"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	Bio             string       `json:"bio"`
	ShortBio        string       `json:"shortBio,omitempty"`
	ProfileImage    string       `json:"profileImage,omitempty"`
	Specialization  StringList   `json:"specialization"`
	Languages       StringList   `json:"languages"`
	Availability    Availability `json:"availability"`
	SessionTypes    StringList   `json:"sessionTypes"`
	SessionDuration int          `json:"sessionDuration"`
	Pricing         Pricing      `json:"pricing"`
	IsActive        bool         `json:"isActive"`
	IsVerified      bool         `json:"isVerified"`
	VerifiedAt      *time.Time   `json:"verifiedAt,omitempty"`
	Rating          Rating       `json:"rating"`
	TotalSessions   int          `json:"totalSessions"`
	TotalClients    int          `json:"totalClients"`
	TotalEarnings   float64      `json:"totalEarnings"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// FullName returns the expert's display name.
func (e *Expert) FullName() string {
	return e.FirstName + " " + e.LastName
}

// ExpertRef is the projection embedded when an expert reference is populated.
type ExpertRef struct {
	ID           int    `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// CreateExpertRequest carries the form fields accepted when creating an expert.
type CreateExpertRequest struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Bio             string
	ShortBio        string
	ProfileImage    string
	Specialization  StringList
	Languages       StringList
	SessionTypes    StringList
	SessionDuration int
}

// UpdateExpertRequest carries the optional fields of an expert update.
type UpdateExpertRequest struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	Bio             *string
	ShortBio        *string
	ProfileImage    *string
	Specialization  StringList
	Languages       StringList
	SessionTypes    StringList
	SessionDuration *int
	Availability    *Availability
	Pricing         *Pricing
}

// ExpertListFilter narrows an expert list query.
type ExpertListFilter struct {
	ListParams
	Specialization string
	IsVerified     *bool
	IsActive       *bool
}
