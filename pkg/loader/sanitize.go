package loader

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	displayPolicyOnce sync.Once
	displayPolicy     *bluemonday.Policy
)

// sanitizeText strips every markup element from a display string and decodes
// the entities the policy escaped, returning trimmed plain text.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := displaySanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func displaySanitizer() *bluemonday.Policy {
	displayPolicyOnce.Do(func() {
		displayPolicy = bluemonday.StrictPolicy()
	})
	return displayPolicy
}
