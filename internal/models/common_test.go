package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int
		expected Pagination
	}{
		{
			name:     "partial last page",
			page:     1,
			limit:    10,
			total:    25,
			expected: Pagination{Current: 1, Pages: 3, Total: 25},
		},
		{
			name:     "exact multiple",
			page:     2,
			limit:    10,
			total:    20,
			expected: Pagination{Current: 2, Pages: 2, Total: 20},
		},
		{
			name:     "empty result set",
			page:     1,
			limit:    10,
			total:    0,
			expected: Pagination{Current: 1, Pages: 0, Total: 0},
		},
		{
			name:     "zero limit",
			page:     1,
			limit:    0,
			total:    5,
			expected: Pagination{Current: 1, Pages: 0, Total: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewPagination(tt.page, tt.limit, tt.total))
		})
	}
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected StringList
	}{
		{name: "plain list", input: "calm,lucid,vivid", expected: StringList{"calm", "lucid", "vivid"}},
		{name: "spaces and empties trimmed", input: " calm , ,lucid, ", expected: StringList{"calm", "lucid"}},
		{name: "blank input", input: "   ", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitCommaList(tt.input))
		})
	}
}
