package studyplan

import (
	"encoding/json"
	"strings"
)

// ExtractJSONArray locates the JSON array inside free-form model output.
//
// Candidates are the top-level balanced [...] regions, scanned left to right;
// brackets inside string literals are ignored and arrays nested in a region
// are never candidates on their own. The first candidate that is valid JSON
// wins. When none is valid the first region is returned so the parse stage
// can report it. A '[' that is never closed ends the scan, and if no region
// came before it the span up to the last ']' is returned. Only text with no
// '[' followed by a ']' yields ErrNoJSONFound.
func ExtractJSONArray(text string) (string, error) {
	first := strings.IndexByte(text, '[')
	if first < 0 {
		return "", ErrNoJSONFound
	}
	last := strings.LastIndexByte(text, ']')
	if last < first {
		return "", ErrNoJSONFound
	}

	fallback := ""
	for start := first; start < len(text); {
		end, ok := matchBracket(text, start)
		if !ok {
			break
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
		if fallback == "" {
			fallback = candidate
		}
		next := strings.IndexByte(text[end+1:], '[')
		if next < 0 {
			break
		}
		start = end + 1 + next
	}
	if fallback != "" {
		return fallback, nil
	}
	return text[first : last+1], nil
}

// matchBracket returns the index of the ']' that closes the '[' at start.
func matchBracket(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// ParseExtracted decodes an extracted array into a generic JSON value.
func ParseExtracted(fragment string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(fragment), &v); err != nil {
		return nil, err
	}
	return v, nil
}
