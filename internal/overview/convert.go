package overview

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/specsplit/internal/frontmatter"
)

type themeRule struct {
	pattern    *regexp.Regexp
	admonition string
}

// Stoplight callouts are an HTML theme comment followed by a blockquote.
var themeRules = []themeRule{
	{regexp.MustCompile(`(?i)<!--\s*theme:\s*info\s*-->\s*\n((?:>.*\n?)+)`), "info"},
	{regexp.MustCompile(`(?i)<!--\s*theme:\s*warning\s*-->\s*\n((?:>.*\n?)+)`), "warning"},
	{regexp.MustCompile(`(?i)<!--\s*theme:\s*danger\s*-->\s*\n((?:>.*\n?)+)`), "danger"},
	{regexp.MustCompile(`(?i)<!--\s*theme:\s*success\s*-->\s*\n((?:>.*\n?)+)`), "tip"},
}

var (
	quotePrefix  = regexp.MustCompile(`^>\s?`)
	tabStart     = regexp.MustCompile(`(?i)<!--\s*type:\s*tab\s*\n\s*title:\s*([^>]+)\s*-->\s*\n`)
	tabEnd       = regexp.MustCompile(`(?i)<!--\s*type:\s*tab-end\s*-->\s*\n?`)
	titleComment = regexp.MustCompile(`(?i)<!--\s*title:\s*"[^"]*"\s*-->\s*\n`)
	extraBlank   = regexp.MustCompile(`\n{4,}`)
)

// Convert rewrites Stoplight-flavoured markdown into Docusaurus markdown: theme callouts
// become admonitions, tab markers become bold labels separated by rules, title comments
// are dropped, and a leading H1 repeating the tag name is removed. It returns the new
// content and the number of callouts and headings rewritten.
func Convert(content, tagName string) (string, int) {
	conversions := 0

	for _, rule := range themeRules {
		content = rule.pattern.ReplaceAllStringFunc(content, func(match string) string {
			sub := rule.pattern.FindStringSubmatch(match)
			conversions++
			lines := strings.Split(sub[1], "\n")
			for i, l := range lines {
				lines[i] = quotePrefix.ReplaceAllString(l, "")
			}
			return ":::" + rule.admonition + "\n" + strings.TrimSpace(strings.Join(lines, "\n")) + "\n:::\n"
		})
	}

	content = tabStart.ReplaceAllStringFunc(content, func(match string) string {
		sub := tabStart.FindStringSubmatch(match)
		return "**" + strings.TrimSpace(sub[1]) + "**\n\n"
	})
	content = tabEnd.ReplaceAllString(content, "\n---\n\n")
	content = titleComment.ReplaceAllString(content, "")

	if stripped, ok := StripTitleHeading(content, tagName); ok {
		content = stripped
		conversions++
	}

	content = extraBlank.ReplaceAllString(content, "\n\n\n")
	return content, conversions
}

// StripTitleHeading removes the document's first block when it is a level-one heading
// whose text equals tagName (case-insensitive), along with one following blank line.
func StripTitleHeading(content, tagName string) (string, bool) {
	src := []byte(content)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	first := root.FirstChild()
	h, ok := first.(*gmast.Heading)
	if !ok || h.Level != 1 || h.Lines().Len() == 0 {
		return content, false
	}

	var title strings.Builder
	for i := 0; i < h.Lines().Len(); i++ {
		seg := h.Lines().At(i)
		title.Write(seg.Value(src))
	}
	if !strings.EqualFold(strings.TrimSpace(title.String()), strings.TrimSpace(tagName)) {
		return content, false
	}

	start := lineStart(src, h.Lines().At(0).Start)
	end := lineEnd(src, h.Lines().At(h.Lines().Len()-1).Stop)
	if !bytes.HasPrefix(bytes.TrimLeft(src[start:], " "), []byte("#")) {
		// Setext heading: the underline is the next line.
		end = lineEnd(src, end)
	}
	if end < len(src) && (src[end] == '\n' || (src[end] == '\r' && end+1 < len(src) && src[end+1] == '\n')) {
		end = lineEnd(src, end)
	}

	return string(src[:start]) + string(src[end:]), true
}

func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

// lineEnd returns the offset just past the newline terminating the line containing pos.
func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	i := bytes.IndexByte(src[pos:], '\n')
	if i < 0 {
		return len(src)
	}
	return pos + i + 1
}

// FileResult records the outcome of converting one overview file.
type FileResult struct {
	Name        string
	Changed     bool
	Conversions int
}

// ConvertDir converts every overview file in dir in place, writing only files whose
// content changed. Frontmatter is left untouched.
func ConvertDir(dir string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var results []FileResult
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return results, err
		}

		_, body, _, err := frontmatter.Split(data)
		if err != nil {
			body = data
		}
		head := string(data[:len(data)-len(body)])

		converted, n := Convert(string(body), strings.TrimSuffix(e.Name(), Extension))
		res := FileResult{Name: e.Name(), Conversions: n}
		if converted != string(body) {
			info, err := e.Info()
			if err != nil {
				return results, err
			}
			if err := os.WriteFile(path, []byte(head+converted), info.Mode().Perm()); err != nil {
				return results, err
			}
			res.Changed = true
		}
		results = append(results, res)
	}
	return results, nil
}
