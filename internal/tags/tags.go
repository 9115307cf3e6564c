// Package tags groups the operations of a master API description by tag and orders them
// by the x-iiq-docs section/order metadata.
package tags

import (
	"git.home.luguber.info/inful/specsplit/internal/oas"
)

// DocsExtension is the per-operation extension carrying {section, order}.
const DocsExtension = "x-iiq-docs"

// DefaultUntagged is the bucket name for operations that declare no tags.
const DefaultUntagged = "Untagged"

// Definition is the declared metadata of one tag.
type Definition struct {
	Name         string
	Description  string
	DisplayName  string
	ExternalDocs *oas.Node
}

// Table is an insertion-ordered set of tag definitions keyed by name.
type Table struct {
	order []string
	defs  map[string]*Definition
}

// Get returns the definition for name, or nil.
func (t *Table) Get(name string) *Definition {
	if t == nil {
		return nil
	}
	return t.defs[name]
}

// Names returns tag names in declaration order followed by discovery order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of tags.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

func (t *Table) add(d *Definition) {
	if _, ok := t.defs[d.Name]; ok {
		return
	}
	t.order = append(t.order, d.Name)
	t.defs[d.Name] = d
}

// Extract collects the tag table of a source document: declared tags first, then any tag
// referenced by an operation but not declared, with an empty description.
func Extract(doc *oas.Node) *Table {
	t := &Table{defs: map[string]*Definition{}}

	if declared := doc.Get("tags"); declared.IsArray() {
		for _, tag := range declared.Items {
			if !tag.Get("name").IsString() {
				continue
			}
			name := tag.StringAt("name")
			display := tag.StringAt("x-displayName")
			if display == "" {
				display = name
			}
			d := &Definition{
				Name:        name,
				Description: tag.StringAt("description"),
				DisplayName: display,
			}
			if ext := tag.Get("externalDocs"); ext != nil && ext.Kind != oas.KindNull {
				d.ExternalDocs = ext.Clone()
			}
			t.add(d)
		}
	}

	oas.EachOperation(doc.Get("paths"), func(_, _ string, _, op *oas.Node) {
		for _, name := range op.Get("tags").StringSlice() {
			t.add(&Definition{Name: name, DisplayName: name})
		}
	})

	return t
}
