package segment

import (
	"regexp"
	"strings"
)

var (
	slugStripRe  = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify lowercases s, drops punctuation and joins words with single hyphens.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "- ")
}
