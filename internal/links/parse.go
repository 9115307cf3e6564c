// Package links rewrites the internal cross-reference links embedded in description text
// (#/Tag/operationId, #/components/schemas/Name, #/Tag) into documentation site paths.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind identifies what an internal link points at.
type Kind int

const (
	KindSchema Kind = iota
	KindOperation
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindOperation:
		return "operation"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

const schemaTarget = "components/schemas/"

// internalLink matches [display](#/target). The target shape decides the kind.
var internalLink = regexp.MustCompile(`\[([^\]]+)\]\(#/([^)]+)\)`)

// Link is one internal markdown link found in a description.
type Link struct {
	Kind Kind
	// Start and End are the byte offsets of the whole link in the parsed text.
	Start, End int
	Original   string
	Text       string
	// Tag is the URL-decoded tag segment of operation and tag links.
	Tag         string
	OperationID string
	Schema      string
}

// Parse finds every internal link in text. Schema targets are recognised first, then
// operation targets (#/Tag/operationId), then tag targets (#/Tag). A match with an empty
// tag or operation segment is not a link; scanning resumes just inside it so a link it
// swallowed is still found.
func Parse(text string) []Link {
	var out []Link
	for pos := 0; pos < len(text); {
		m := internalLink.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		for i := range m {
			m[i] += pos
		}
		pos = m[1]

		l := Link{
			Start:    m[0],
			End:      m[1],
			Original: text[m[0]:m[1]],
			Text:     text[m[2]:m[3]],
		}
		target := text[m[4]:m[5]]

		switch {
		case strings.HasPrefix(target, schemaTarget) && len(target) > len(schemaTarget):
			l.Kind = KindSchema
			l.Schema = strings.TrimPrefix(target, schemaTarget)
		case strings.Contains(target, "/"):
			tag, op, _ := strings.Cut(target, "/")
			if tag == "" || op == "" {
				pos = m[0] + 1
				continue
			}
			l.Kind = KindOperation
			l.Tag = decodeTag(tag)
			l.OperationID = op
		default:
			l.Kind = KindTag
			l.Tag = decodeTag(target)
		}
		out = append(out, l)
	}
	return out
}

// decodeTag unescapes URL-encoded tag names (Custom%20Fields). Malformed escapes are kept.
func decodeTag(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}
