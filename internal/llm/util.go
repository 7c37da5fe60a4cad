// Package llm - util.go holds response post-processing shared by callers.
package llm

import "strings"

// CleanJSONBlock removes markdown code fences from a JSON response. Models
// wrap JSON in ```json fences even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			// language identifier on the opening fence
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractJSON pulls the first balanced JSON object or array out of a
// response that may carry prose before or after it. Returns "" when no
// balanced JSON is present.
func ExtractJSON(text string) string {
	text = CleanJSONBlock(text)

	// Whichever opener appears first in the text is the payload. Trying one
	// shape before the other would return the first object inside a
	// top-level array.
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	start := objStart
	pair := [2]byte{'{', '}'}
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		start = arrStart
		pair = [2]byte{'[', ']'}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == pair[0]:
			depth++
		case ch == pair[1]:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
