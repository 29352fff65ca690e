package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"createdAt": "created_at", "title": "title"}

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		expected  string
	}{
		{name: "allowed column ascending", sortBy: "title", sortOrder: "asc", expected: "ORDER BY title ASC"},
		{name: "direction defaults to descending", sortBy: "createdAt", sortOrder: "", expected: "ORDER BY created_at DESC"},
		{name: "unknown column falls back", sortBy: "password_hash", sortOrder: "asc", expected: "ORDER BY created_at ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderClause(tt.sortBy, tt.sortOrder, allowed, "created_at"))
		})
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		expected string
	}{
		{name: "plain term", search: "mira", expected: "%mira%"},
		{name: "percent matches literally", search: "100%", expected: `%100\%%`},
		{name: "underscore matches literally", search: "usage_log", expected: `%usage\_log%`},
		{name: "backslash matches literally", search: `a\b`, expected: `%a\\b%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, likePattern(tt.search))
		})
	}
}
