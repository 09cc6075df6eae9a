package llm

import "strings"

// ExtractJSON pulls the first complete JSON object or array out of model
// output that may be wrapped in markdown fences or surrounded by prose.
// Best effort: returns ok=false when nothing balanced is found, never errors.
func ExtractJSON(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	// Strip a ```json ... ``` fence if the payload sits inside one.
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			inner := rest[:j]
			inner = strings.TrimPrefix(inner, "json")
			inner = strings.TrimPrefix(inner, "JSON")
			if candidate, ok := balancedJSON(strings.TrimSpace(inner)); ok {
				return candidate, true
			}
		}
	}

	return balancedJSON(s)
}

// balancedJSON scans for the outermost balanced {...} or [...] span,
// ignoring brackets inside string literals.
func balancedJSON(s string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			open = s[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
