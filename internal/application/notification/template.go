// Package notification fans bus events out to the in-app feed, email, and
// SMS according to the event catalog and per-user preferences.
package notification

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// urlEncodedSuffix on a placeholder requests query-escaped output, for
// templates that build links.
const urlEncodedSuffix = "UrlEncoded"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// RenderTemplate substitutes {{path.to.field}} placeholders with values from
// the payload. Dotted paths descend into nested maps; unresolved
// placeholders render empty.
func RenderTemplate(template string, payload map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := placeholderPattern.FindStringSubmatch(match)[1]

		encode := false
		if strings.HasSuffix(path, urlEncodedSuffix) {
			encode = true
			path = strings.TrimSuffix(path, urlEncodedSuffix)
		}

		value, ok := lookupPath(payload, path)
		if !ok {
			return ""
		}

		rendered := fmt.Sprintf("%v", value)
		if encode {
			rendered = url.QueryEscape(rendered)
		}
		return rendered
	})
}

func lookupPath(payload map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = payload

	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}
