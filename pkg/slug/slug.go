package slug

import (
	"regexp"
	"strings"
)

var invalidChars = regexp.MustCompile("[^a-z0-9 -]+")

// Make derives a URL-safe slug from a display name. The same rule applies to
// categories, tags and articles.
func Make(name string) string {
	s := strings.ToLower(name)
	s = invalidChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
