// Package llm - util.go provides shared utilities for model response processing.
package llm

import "strings"

// CleanJSONBlock extracts the JSON payload from a model reply. Despite
// JSON response modes, replies still arrive wrapped in ```json fences,
// prefixed with conversational preamble, or followed by trailing
// chatter; the first balanced object or array is taken as the payload.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier left on the fence line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	start := objStart
	extract := extractJSONObject
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start = arrStart
		extract = extractJSONArray
	}
	if start < 0 {
		return text
	}
	if payload := extract(text[start:]); payload != "" {
		return payload
	}
	return text
}

// extractJSONObject returns the first balanced JSON object in text,
// which must start with '{'. Empty result means no balanced object.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the first balanced JSON array in text,
// which must start with '['.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans for the delimiter that closes the opening one
// at position 0. String contents are skipped, so delimiters inside
// values (quoted braces, escaped quotes) do not affect the balance.
func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
