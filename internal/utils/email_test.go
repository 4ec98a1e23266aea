package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{"has space@example.com", false},
		{"ops@harborline.example", true},
		{"first.last+tag@example.co", true},
	}

	for _, tc := range cases {
		err := ValidateEmail(tc.email)
		if tc.valid {
			assert.NoError(t, err, "email %q", tc.email)
		} else {
			assert.Error(t, err, "email %q", tc.email)
		}
	}
}
