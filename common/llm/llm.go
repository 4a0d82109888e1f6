package llm

import (
	"regexp"
	"strings"
)

var nameInvalidChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SanitizeName maps a person's display name onto the ^[a-zA-Z0-9_-]{1,64}$
// shape the chat API accepts for a participant name. Runs of other
// characters collapse into a single underscore.
func SanitizeName(name string) string {
	sanitized := strings.Trim(nameInvalidChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if len(sanitized) > 64 {
		sanitized = sanitized[:64]
	}
	return sanitized
}
