package utils

import "strings"

// Slugify canonicalises a human label into a slug: lowercase, every run of
// non-alphanumeric characters collapses to a single underscore, leading and
// trailing underscores are trimmed. "In Progress" becomes "in_progress".
func Slugify(label string) string {
	var b strings.Builder
	b.Grow(len(label))

	lastUnderscore := true // suppress a leading underscore
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}

// IsSlug reports whether s is already in canonical slug form.
func IsSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
