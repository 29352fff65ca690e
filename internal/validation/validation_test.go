package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_CollectsAllErrors(t *testing.T) {
	v := New()
	v.Required("email", "")
	v.Required("password", "")
	v.Required("firstName", "ok")

	assert.False(t, v.Valid())
	assert.Len(t, v.Errors(), 2)
	assert.Equal(t, "email", v.Errors()[0].Field)
	assert.Equal(t, "password is required", v.Errors()[1].Message)
}

func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid", "admin@example.com", true},
		{"missing at", "admin.example.com", false},
		{"missing domain", "admin@", false},
		{"spaces", "ad min@example.com", false},
		{"empty skipped", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Email("email", tt.email)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestValidator_Lengths(t *testing.T) {
	v := New()
	v.MinLen("password", "12345", 6)
	assert.False(t, v.Valid())
	assert.Equal(t, "password must be at least 6 characters", v.Errors()[0].Message)

	v = New()
	v.MinLen("password", "123456", 6)
	v.MaxLen("title", "short title", 200)
	assert.True(t, v.Valid())
}

func TestValidator_OneOf(t *testing.T) {
	roles := []string{"admin", "moderator", "content_manager"}

	v := New()
	v.OneOf("role", "moderator", roles)
	assert.True(t, v.Valid())

	v = New()
	v.OneOf("role", "superuser", roles)
	assert.False(t, v.Valid())
	assert.Equal(t, "Invalid role", v.Errors()[0].Message)
}

func TestValidator_Numbers(t *testing.T) {
	v := New()
	v.IntRange("duration", 0, 15, 480)
	v.FloatMin("price", -1, 0)
	v.PositiveID("authorId", 0)

	assert.Len(t, v.Errors(), 3)
	assert.Equal(t, "duration must be between 15 and 480", v.Errors()[0].Message)
	assert.Equal(t, "Valid authorId is required", v.Errors()[2].Message)
}
