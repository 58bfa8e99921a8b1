package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "Line cooks earn $16.50 an hour.",
			expected: "Line cooks earn $16.50 an hour.",
		},
		{
			name:     "fenced block",
			input:    "```\nLine cooks earn $16.50 an hour.\n```",
			expected: "Line cooks earn $16.50 an hour.",
		},
		{
			name:     "fenced block with language",
			input:    "```text\nLine cooks earn more.\n```",
			expected: "Line cooks earn more.",
		},
		{
			name:     "quoted with label",
			input:    "Summary: \"Pay grew 5.8%.\"",
			expected: "Pay grew 5.8%.",
		},
		{
			name:     "line breaks collapse",
			input:    "First sentence.\n\nSecond   sentence.",
			expected: "First sentence. Second sentence.",
		},
		{
			name:     "empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
