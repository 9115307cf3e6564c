// Package frontmatter separates optional YAML frontmatter from overview markdown files.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Header holds the frontmatter keys the overview loader understands. Other keys are kept
// in Fields.
type Header struct {
	// Tag registers the overview under an explicit tag name in addition to its file name.
	Tag    string         `yaml:"tag,omitempty"`
	Title  string         `yaml:"title,omitempty"`
	Fields map[string]any `yaml:",inline"`
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a frontmatter delimiter, had is false and body is
// the full input. Both LF and CRLF files are recognised.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len(nl+"---")
			return content[start : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes its frontmatter. A document without frontmatter yields
// an empty Header and the full content as body.
func Parse(content []byte) (Header, []byte, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return Header{}, nil, err
	}
	var h Header
	if !had || len(bytes.TrimSpace(fm)) == 0 {
		return h, body, nil
	}
	if err := yaml.Unmarshal(fm, &h); err != nil {
		return Header{}, nil, fmt.Errorf("decode frontmatter: %w", err)
	}
	return h, body, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Render prefixes body with h as YAML frontmatter.
func Render(h Header, body []byte) ([]byte, error) {
	head, err := yaml.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}
	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n")
	b.Write(body)
	return b.Bytes(), nil
}
