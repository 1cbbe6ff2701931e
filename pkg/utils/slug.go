package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify derives a subdomain slug from an organization name: lower-case,
// strip everything outside [a-z0-9-], collapse whitespace to hyphens and
// truncate to 30 characters. Names that reduce to fewer than 3 characters
// get a time-derived numeric suffix so the result is never empty.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 30 {
		slug = strings.Trim(slug[:30], "-")
	}
	if len(slug) < 3 {
		slug = fmt.Sprintf("%s%d", slug, time.Now().UnixMilli()%1000000)
	}
	return slug
}

// SlugWithSuffix appends a time-derived fragment used to de-duplicate a
// colliding subdomain. The base is re-truncated so the result stays usable
// as a DNS label.
func SlugWithSuffix(base string) string {
	suffix := fmt.Sprintf("%d", time.Now().UnixMilli()%1000000)
	if len(base)+1+len(suffix) > 30 {
		base = base[:30-1-len(suffix)]
		base = strings.Trim(base, "-")
	}
	return base + "-" + suffix
}
