package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repositories when no row matches the
// requested id. Handlers map it to a 404 response.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update violates a unique
// constraint such as an email or purchase id.
var ErrDuplicate = errors.New("duplicate record")

// Pagination describes the position of a list response within the full result set.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// NewPagination computes the page descriptor for a list response.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Current: page, Pages: pages, Total: total}
}

// ListParams carries the common list query parameters shared by every entity.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Rating is the cached rating aggregate kept on content-like entities.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// StringList is a JSON-array column holding a list of strings.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return jsonScan(l, src)
}

// SplitCommaList normalizes a comma-separated form value into a list,
// dropping empty elements. Returns nil for a blank input.
func SplitCommaList(s string) StringList {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// jsonValue marshals a JSON-backed column value for storage.
func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON column: %w", err)
	}
	return string(b), nil
}

// jsonScan unmarshals a JSON-backed column value from the database.
// NULL and empty values leave the destination untouched.
func jsonScan(dst any, src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(s) == 0 {
			return nil
		}
		return json.Unmarshal(s, dst)
	case string:
		if s == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported JSON column source type %T", src)
	}
}
