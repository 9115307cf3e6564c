package adapter

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/slug"
)

var (
	versionPrefix = regexp.MustCompile(`^/api/v\d+\.\d+/`)
	nonAlnum      = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// FormatSectionName turns a raw section identifier into its display form.
//
//	creating-tickets -> Creating Tickets
func FormatSectionName(section string) string {
	return slug.Display(section)
}

// GenerateOperationID synthesizes an operationId from the verb and the literal path
// segments: the /api/vX.Y/ prefix and {parameter} segments are dropped and the rest is
// camel-cased behind the verb.
//
//	GET /api/v1.0/users/{id}/assets -> getUsersAssets
func GenerateOperationID(path, method string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	for _, seg := range strings.Split(versionPrefix.ReplaceAllString(path, ""), "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		clean := strings.ToLower(nonAlnum.ReplaceAllString(seg, ""))
		if clean == "" {
			continue
		}
		b.WriteString(strings.ToUpper(clean[:1]) + clean[1:])
	}
	return b.String()
}
