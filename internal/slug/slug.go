// Package slug derives the URL slugs used by the documentation site for tags, schemas
// and operations. The rules must match the site generator's own slugging exactly or
// rewritten links will not resolve.
package slug

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lowerUpper     = regexp.MustCompile(`([a-z])([A-Z])`)
	upperRunUpper  = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	upperDigit     = regexp.MustCompile(`([A-Z])(\d)`)
	lowerDigit     = regexp.MustCompile(`([a-z])(\d)`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	nonFileChars   = regexp.MustCompile(`[^a-z0-9-]`)
)

// Operation converts a camelCase operationId to its kebab-case slug.
//
//	getAllSiteLocationsV2 -> get-all-site-locations-v-2
//	getHTTPStatus         -> get-http-status
func Operation(operationID string) string {
	s := lowerUpper.ReplaceAllString(operationID, "${1}-${2}")
	s = upperRunUpper.ReplaceAllString(s, "${1}-${2}")
	s = upperDigit.ReplaceAllString(s, "${1}-${2}")
	s = lowerDigit.ReplaceAllString(s, "${1}-${2}")
	return strings.ToLower(s)
}

// Tag lowercases a tag name and replaces whitespace runs with hyphens.
func Tag(tagName string) string {
	return whitespaceRuns.ReplaceAllString(strings.ToLower(tagName), "-")
}

// Schema lowercases a schema name. Schema slugs carry no hyphens.
func Schema(schemaName string) string {
	return strings.ToLower(schemaName)
}

// File returns the file stem used for a tag's output document: the tag slug with
// every character outside [a-z0-9-] removed.
func File(tagName string) string {
	return nonFileChars.ReplaceAllString(Tag(tagName), "")
}

// Display turns a hyphenated identifier back into display words by upper-casing the
// first character of each word. The rest of each word is left as written.
//
//	creating-tickets -> Creating Tickets
//	2fa-setup        -> 2fa Setup
func Display(s string) string {
	// Casers are stateful; callers run concurrently.
	upper := cases.Upper(language.Und)
	words := strings.Split(s, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 || r == utf8.RuneError {
			continue
		}
		words[i] = upper.String(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
