// Package htmlsanitize cleans user-supplied rich text before it is stored.
// Folder and file descriptions accept limited formatting; everything else
// is stripped with bluemonday.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descPolicy  *bluemonday.Policy
	stripPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

func initPolicies() {
	policyOnce.Do(func() {
		// Descriptions allow a small formatting set: emphasis, lists,
		// links with safe protocols.
		descPolicy = bluemonday.NewPolicy()
		descPolicy.AllowElements("b", "strong", "i", "em", "u", "s", "p", "br", "ul", "ol", "li")
		descPolicy.AllowAttrs("href").OnElements("a")
		descPolicy.AllowURLSchemes("http", "https", "mailto")
		descPolicy.RequireNoFollowOnLinks(true)

		stripPolicy = bluemonday.StrictPolicy()
	})
}

// Description sanitizes a folder or file description, keeping basic
// formatting and removing everything dangerous.
func Description(html string) string {
	if html == "" {
		return ""
	}
	initPolicies()
	return strings.TrimSpace(descPolicy.Sanitize(html))
}

// StripToText removes all markup, returning plain text. Used where a
// description is reproduced in logs or listings.
func StripToText(html string) string {
	if html == "" {
		return ""
	}
	initPolicies()
	return strings.TrimSpace(stripPolicy.Sanitize(html))
}
