package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_CodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"overall_score\": 72}\n```",
			expected: `{"overall_score": 72}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"overall_score\": 72}\n```",
			expected: `{"overall_score": 72}`,
		},
		{
			name:     "fence with language identifier",
			input:    "```javascript\n{\"overall_score\": 72}\n```",
			expected: `{"overall_score": 72}`,
		},
		{
			name:     "plain payload",
			input:    `{"overall_score": 72}`,
			expected: `{"overall_score": 72}`,
		},
		{
			name:     "fenced suggestions array",
			input:    "```json\n[{\"category\": \"Word Choice\"}]\n```",
			expected: `[{"category": "Word Choice"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_SurroundingChatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before score object",
			input:    "Here is the scored review:\n{\"overall_score\": 68, \"metrics\": []}",
			expected: `{"overall_score": 68, "metrics": []}`,
		},
		{
			name:     "conversational preamble",
			input:    "I read the essay carefully. The hook is weak but the structure holds. Structured output:\n\n{\"reply\": \"Your hook needs work.\", \"quotes\": []}",
			expected: `{"reply": "Your hook needs work.", "quotes": []}`,
		},
		{
			name:     "preamble before suggestions array",
			input:    "Here are the suggestions:\n[{\"title\": \"Tighten the opening\"}]",
			expected: `[{"title": "Tighten the opening"}]`,
		},
		{
			name:     "trailing chatter",
			input:    "{\"overall_score\": 70}\n\nLet me know if you want a deeper pass!",
			expected: `{"overall_score": 70}`,
		},
		{
			name:     "nested payload",
			input:    "Output:\n{\"sub_grades\": [{\"label\": \"Hook\", \"grade\": \"B-\"}]}",
			expected: `{"sub_grades": [{"label": "Hook", "grade": "B-"}]}`,
		},
		{
			name:     "quote with escaped quotes",
			input:    "Result: {\"reply\": \"You wrote \\\"I argue\\\" twice.\"}",
			expected: `{"reply": "You wrote \"I argue\" twice."}`,
		},
		{
			name:     "no payload at all",
			input:    "I could not produce a review for this essay.",
			expected: "I could not produce a review for this essay.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"overall_score": 72}`,
			expected: `{"overall_score": 72}`,
		},
		{
			name:     "object with array value",
			input:    `{"quotes": ["really good", "my first debate"]}`,
			expected: `{"quotes": ["really good", "my first debate"]}`,
		},
		{
			name:     "object with trailing text",
			input:    `{"overall_score": 72} and a closing remark`,
			expected: `{"overall_score": 72}`,
		},
		{
			name:     "braces inside a string value",
			input:    `{"replacement": "use {essay} placeholders"}`,
			expected: `{"replacement": "use {essay} placeholders"}`,
		},
		{
			name:     "unbalanced object",
			input:    `{"overall_score": 72`,
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not an object",
			input:    "plain prose",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "array of suggestion objects",
			input:    `[{"title": "Tighten the opening"}, {"title": "Vary sentence length"}]`,
			expected: `[{"title": "Tighten the opening"}, {"title": "Vary sentence length"}]`,
		},
		{
			name:     "nested arrays",
			input:    `[["beginning"], ["middle", "end"]]`,
			expected: `[["beginning"], ["middle", "end"]]`,
		},
		{
			name:     "array with trailing text",
			input:    `["Clarity", "Delivery"] plus commentary`,
			expected: `["Clarity", "Delivery"]`,
		},
		{
			name:     "brackets inside a string value",
			input:    `["quote [sic] kept"]`,
			expected: `["quote [sic] kept"]`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not an array",
			input:    "plain prose",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONArray(tt.input))
		})
	}
}
