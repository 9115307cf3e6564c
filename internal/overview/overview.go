// Package overview loads hand-written tag overview markdown and turns it into tag
// descriptions, falling back to a generated description when no file matches.
package overview

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/frontmatter"
	"git.home.luguber.info/inful/specsplit/internal/logfields"
)

// Extension is the file extension of overview files.
const Extension = ".md"

// Table maps tag names (file stems and their lowercase variants) to overview text.
type Table struct {
	entries map[string]string
	files   []string
}

// NewTable builds a table from stem → content pairs. Useful for callers that do not read
// from disk.
func NewTable(contents map[string]string) *Table {
	t := &Table{entries: map[string]string{}}
	stems := make([]string, 0, len(contents))
	for stem := range contents {
		stems = append(stems, stem)
	}
	slices.Sort(stems)
	for _, stem := range stems {
		t.register(stem, contents[stem])
		t.files = append(t.files, stem+Extension)
	}
	return t
}

// Files returns the names of the loaded overview files.
func (t *Table) Files() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.files...)
}

// Len returns the number of loaded overview files.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.files)
}

func (t *Table) register(name, content string) {
	t.entries[name] = content
	t.entries[strings.ToLower(name)] = content
}

// Load reads every *.md file in dir. A missing directory yields an empty table; an
// unreadable file is skipped with a warning.
func Load(dir string) (*Table, error) {
	t := &Table{entries: map[string]string{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Overviews directory not found", logfields.Path(dir))
			return t, nil
		}
		return nil, err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Could not read overview", logfields.File(e.Name()), logfields.Error(err))
			continue
		}

		header, body, err := frontmatter.Parse(data)
		if err != nil {
			slog.Warn("Ignoring malformed overview frontmatter", logfields.File(e.Name()), logfields.Error(err))
			body = data
		}

		content := string(body)
		t.register(strings.TrimSuffix(e.Name(), Extension), content)
		if header.Tag != "" {
			t.register(header.Tag, content)
		}
		t.files = append(t.files, e.Name())
	}

	return t, nil
}

// Candidates lists the keys tried for a tag, in lookup order.
func Candidates(tagName string) []string {
	keys := []string{tagName, strings.ToLower(tagName)}
	for _, variant := range []string{
		strings.ReplaceAll(tagName, " ", "-"),
		strings.ReplaceAll(tagName, " ", "_"),
		strings.ReplaceAll(tagName, " ", ""),
	} {
		keys = append(keys, variant, strings.ToLower(variant))
	}
	return keys
}

// Find returns the overview for tagName: exact name, lowercase, then the hyphen, underscore
// and no-space variants in original and lowercase form. First hit wins.
func (t *Table) Find(tagName string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, key := range Candidates(tagName) {
		if content, ok := t.entries[key]; ok {
			return content, true
		}
	}
	return "", false
}

// Missing returns the tags in names that have no overview.
func (t *Table) Missing(names []string) []string {
	var out []string
	for _, name := range names {
		if _, ok := t.Find(name); !ok {
			out = append(out, name)
		}
	}
	return out
}
