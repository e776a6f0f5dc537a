package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength caps chat message content, in runes.
const MaxMessageLength = 4000

var (
	scriptTagRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	onEventRegex   = regexp.MustCompile(`(?i)\s+on\w+\s*=`)
)

// EscapeSQLWildcards escapes LIKE wildcard characters. Queries using the
// result must declare ESCAPE '\'.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// ContainsPattern lowercases and escapes input and wraps it in % for a
// case-insensitive substring match against LOWER(column).
func ContainsPattern(input string) string {
	input = TruncateString(strings.ToLower(strings.TrimSpace(input)), 100)
	return "%" + EscapeSQLWildcards(input) + "%"
}

// SanitizeMessageContent trims, length-checks and escapes chat content.
func SanitizeMessageContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("message cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", errors.New("message exceeds maximum length")
	}

	content = scriptTagRegex.ReplaceAllString(content, "")
	content = onEventRegex.ReplaceAllString(content, " ")
	content = html.EscapeString(strings.TrimSpace(content))
	if content == "" {
		return "", errors.New("message cannot be empty")
	}
	return content, nil
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes all HTML tags from a string.
func StripHTML(input string) string {
	return htmlTagRegex.ReplaceAllString(input, "")
}

// TruncateString truncates s to at most maxLen runes.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
