package data

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("error sanitizing answer")

// SanitizeAnswer returns the first balanced JSON object found in an LLM answer
// that is valid JSON. Braces inside JSON strings are ignored. When no
// candidate is valid the first balanced one is returned.
func SanitizeAnswer(ans string) (string, error) {
	first := ""
	start := strings.IndexByte(ans, '{')
	for start >= 0 {
		if end := matchBrace(ans[start:]); end > 0 {
			candidate := ans[start : start+end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
			if first == "" {
				first = candidate
			}
		}
		next := strings.IndexByte(ans[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	if first != "" {
		return first, nil
	}
	return "", ErrNoJSON
}

// matchBrace returns the index of the brace closing s[0], or -1.
func matchBrace(s string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(ans string) string {
	s := strings.TrimSpace(ans)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
