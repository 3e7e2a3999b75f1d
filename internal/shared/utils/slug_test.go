package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Operating Systems", "operating-systems"},
		{"Office  \t Suites", "office-suites"},
		{"Office\u00a0Suites", "office-suites"},
		{"Office \u2003\u00a0Suites", "office-suites"},
		{"Anti-Virus & Security", "anti-virus-&-security"},
		{"Software", "software"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.input), "%q", tt.input)
	}
}
