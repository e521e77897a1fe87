package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single tag",
			input:    "swing",
			expected: []string{"swing"},
		},
		{
			name:     "varied spacing",
			input:    "swing,  tech , earnings",
			expected: []string{"swing", "tech", "earnings"},
		},
		{
			name:     "trailing and leading commas",
			input:    ",tech,",
			expected: []string{"tech"},
		},
		{
			name:     "only spaces",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "commas only",
			input:    ",,,",
			expected: nil,
		},
		{
			name:     "internal spaces preserved",
			input:    "mean reversion, Breakout Play",
			expected: []string{"mean reversion", "Breakout Play"},
		},
		{
			name:     "case preserved",
			input:    "Tech,exit",
			expected: []string{"Tech", "exit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input))
		})
	}
}
