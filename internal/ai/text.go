package ai

import "strings"

// StripCodeFences removes a surrounding markdown fence such as ```json.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeft(s, "`")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// FindJSONArray returns the first balanced [...] in s, or "". Brackets
// inside JSON strings are skipped.
func FindJSONArray(s string) string {
	start, depth := -1, 0
	inStr, esc := false, false
	for i, r := range s {
		if inStr {
			switch {
			case esc:
				esc = false
			case r == '\\':
				esc = true
			case r == '"':
				inStr = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inStr = true
			}
		case '[':
			if start == -1 {
				start = i
			}
			depth++
		case ']':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
