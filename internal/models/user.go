package models

import "time"

// SubscriptionStatus is a user's subscription tier.
type SubscriptionStatus string

const (
	SubscriptionFree    SubscriptionStatus = "free"
	SubscriptionPremium SubscriptionStatus = "premium"
)

// ValidSubscriptionStatus reports whether s is a declared tier.
func ValidSubscriptionStatus(s string) bool {
	return s == string(SubscriptionFree) || s == string(SubscriptionPremium)
}

// User is an end-user account managed from the back office.
type User struct {
	ID                 int                `json:"id"`
	Email              string             `json:"email"`
	PasswordHash       string             `json:"-"`
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	Phone              string             `json:"phone,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionExpiry *time.Time         `json:"subscriptionExpiry,omitempty"`
	IsActive           bool               `json:"isActive"`
	DreamCount         int                `json:"dreamCount"`
	LastLogin          *time.Time         `json:"lastLogin,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// UpdateUserRequest carries the optional fields of a user update.
type UpdateUserRequest struct {
	FirstName          *string `json:"firstName"`
	LastName           *string `json:"lastName"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	SubscriptionStatus *string `json:"subscriptionStatus"`
	IsActive           *bool   `json:"isActive"`
}

// UserListFilter narrows a user list query.
type UserListFilter struct {
	ListParams
	SubscriptionStatus string
	IsActive           *bool
}

// UserStats is the aggregate payload of the user stats endpoint.
type UserStats struct {
	TotalUsers          int     `json:"totalUsers"`
	ActiveUsers         int     `json:"activeUsers"`
	InactiveUsers       int     `json:"inactiveUsers"`
	PremiumUsers        int     `json:"premiumUsers"`
	FreeUsers           int     `json:"freeUsers"`
	RecentRegistrations int     `json:"recentRegistrations"`
	UsersWithDreams     int     `json:"usersWithDreams"`
	UsersWithoutDreams  int     `json:"usersWithoutDreams"`
	AvgDreamsPerUser    float64 `json:"avgDreamsPerUser"`
}
