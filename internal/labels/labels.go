package labels

import (
	"regexp"
	"strings"
)

var separatorPattern = regexp.MustCompile(`[_\-\s]+`)

// Humanize converts a field label into a display name. Underscores, dashes,
// and camelCase boundaries become word breaks and each word is title-cased,
// so "marital_status" yields "Marital Status" and "releaseNotes" yields
// "Release Notes".
func Humanize(label string) string {
	if label == "" {
		return ""
	}

	var words []string
	for _, chunk := range separatorPattern.Split(label, -1) {
		for _, word := range splitCamel(chunk) {
			words = append(words, titleWord(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(chunk string) []string {
	if chunk == "" {
		return nil
	}

	var words []string
	start := 0
	for i := 1; i < len(chunk); i++ {
		if wordBoundary(chunk[i-1], chunk[i]) {
			words = append(words, chunk[start:i])
			start = i
		}
	}
	return append(words, chunk[start:])
}

func wordBoundary(prev, cur byte) bool {
	return (isLower(prev) && isUpper(cur)) || (isLetter(prev) && isDigit(cur)) || (isDigit(prev) && isLetter(cur))
}

func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return isUpper(c) || isLower(c) }

func titleWord(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
