package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	email := "paula@example.com"

	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{
			name:     "full name",
			user:     User{FirstName: "Paula", LastName: "Nguyen"},
			expected: "Paula Nguyen",
		},
		{
			name:     "first name only",
			user:     User{FirstName: "Paula"},
			expected: "Paula",
		},
		{
			name:     "falls back to email when names are empty",
			user:     User{Email: &email},
			expected: email,
		},
		{
			name:     "empty user",
			user:     User{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}
