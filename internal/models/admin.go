package models

import (
	"database/sql/driver"
	"time"
)

// Role classifies an admin account.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleModerator      Role = "moderator"
	RoleContentManager Role = "content_manager"
)

// Roles lists every valid admin role.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleModerator, RoleContentManager}

// ValidRole reports whether s is a declared role value.
func ValidRole(s string) bool {
	for _, r := range Roles {
		if string(r) == s {
			return true
		}
	}
	return false
}

// Capability names a permission an admin may hold. Route guards check a single
// required capability against the admin's permission set.
type Capability string

const (
	CapUsers        Capability = "users"
	CapEducation    Capability = "education"
	CapAuthors      Capability = "authors"
	CapExperts      Capability = "experts"
	CapSessions     Capability = "sessions"
	CapAppointments Capability = "appointments"
	CapBooks        Capability = "books"
	CapContent      Capability = "content"
	CapAnalytics    Capability = "analytics"
	CapSettings     Capability = "settings"
)

// Permissions is the fixed capability set stored on each admin.
type Permissions struct {
	Users        bool `json:"users"`
	Education    bool `json:"education"`
	Authors      bool `json:"authors"`
	Experts      bool `json:"experts"`
	Sessions     bool `json:"sessions"`
	Appointments bool `json:"appointments"`
	Books        bool `json:"books"`
	Content      bool `json:"content"`
	Analytics    bool `json:"analytics"`
	Settings     bool `json:"settings"`
}

// DefaultPermissions returns the permission set granted to a new admin unless
// overridden: entity management on, analytics and settings off.
func DefaultPermissions() Permissions {
	return Permissions{
		Users:        true,
		Education:    true,
		Authors:      true,
		Experts:      true,
		Sessions:     true,
		Appointments: true,
		Books:        true,
		Content:      true,
	}
}

// Has reports whether the set grants the given capability.
func (p Permissions) Has(c Capability) bool {
	switch c {
	case CapUsers:
		return p.Users
	case CapEducation:
		return p.Education
	case CapAuthors:
		return p.Authors
	case CapExperts:
		return p.Experts
	case CapSessions:
		return p.Sessions
	case CapAppointments:
		return p.Appointments
	case CapBooks:
		return p.Books
	case CapContent:
		return p.Content
	case CapAnalytics:
		return p.Analytics
	case CapSettings:
		return p.Settings
	}
	return false
}

// Value implements driver.Valuer.
func (p Permissions) Value() (driver.Value, error) {
	return jsonValue(p)
}

// Scan implements sql.Scanner.
func (p *Permissions) Scan(src any) error {
	return jsonScan(p, src)
}

// Admin is a back-office account. PasswordHash is never serialized.
type Admin struct {
	ID           int         `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Role         Role        `json:"role"`
	Permissions  Permissions `json:"permissions"`
	IsActive     bool        `json:"isActive"`
	LastLogin    *time.Time  `json:"lastLogin,omitempty"`
	LoginCount   int         `json:"loginCount"`
	ProfileImage string      `json:"profileImage,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// FullName returns the admin's display name.
func (a *Admin) FullName() string {
	return a.FirstName + " " + a.LastName
}

// CreateAdminRequest carries the fields accepted when creating an admin.
type CreateAdminRequest struct {
	Email       string       `json:"email"`
	Password    string       `json:"password"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Role        string       `json:"role"`
	Permissions *Permissions `json:"permissions"`
}

// UpdateAdminRequest carries the optional fields of an admin update.
// Nil pointers mean "leave unchanged".
type UpdateAdminRequest struct {
	FirstName   *string      `json:"firstName"`
	LastName    *string      `json:"lastName"`
	Email       *string      `json:"email"`
	Role        *string      `json:"role"`
	Permissions *Permissions `json:"permissions"`
	IsActive    *bool        `json:"isActive"`
}

// AdminListFilter narrows an admin list query.
type AdminListFilter struct {
	ListParams
	Role     string
	IsActive *bool
}

// AdminStats is the aggregate payload of the admin stats endpoint.
type AdminStats struct {
	TotalAdmins      int              `json:"totalAdmins"`
	ActiveAdmins     int              `json:"activeAdmins"`
	InactiveAdmins   int              `json:"inactiveAdmins"`
	RoleDistribution RoleDistribution `json:"roleDistribution"`
	RecentLogins     int              `json:"recentLogins"`
}

// RoleDistribution counts admins per role.
type RoleDistribution struct {
	SuperAdmins     int `json:"superAdmins"`
	RegularAdmins   int `json:"regularAdmins"`
	Moderators      int `json:"moderators"`
	ContentManagers int `json:"contentManagers"`
}
