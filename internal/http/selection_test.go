package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeSelection(t *testing.T) {
	tests := []struct {
		name     string
		stored   []string
		onPage   []string
		posted   []string
		expected []string
	}{
		{
			name:     "first selection",
			onPage:   []string{"1", "2", "3"},
			posted:   []string{"1", "3"},
			expected: []string{"1", "3"},
		},
		{
			name:     "unticking on the current page removes",
			stored:   []string{"1", "3"},
			onPage:   []string{"1", "2", "3"},
			posted:   []string{"3"},
			expected: []string{"3"},
		},
		{
			name:     "other pages are kept",
			stored:   []string{"1", "51"},
			onPage:   []string{"51", "52"},
			posted:   []string{"52"},
			expected: []string{"1", "52"},
		},
		{
			name:     "nothing posted clears the page only",
			stored:   []string{"1", "51"},
			onPage:   []string{"51", "52"},
			expected: []string{"1"},
		},
		{
			name:     "posted ids outside the page are still added",
			onPage:   []string{"1"},
			posted:   []string{"99"},
			expected: []string{"99"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mergeSelection(tt.stored, tt.onPage, tt.posted))
		})
	}
}
