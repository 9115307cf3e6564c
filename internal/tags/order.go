package tags

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/specsplit/internal/oas"
)

// DefaultOrder is the order hint assumed for operations that declare none.
const DefaultOrder = 9999

// Meta is the x-iiq-docs annotation of one operation.
type Meta struct {
	Section string
	Order   float64
}

// HasSection reports whether the operation declared a section.
func (m Meta) HasSection() bool { return m.Section != "" }

// MetaOf reads the x-iiq-docs annotation of op, applying defaults.
func MetaOf(op *oas.Node) Meta {
	ext := op.Get(DocsExtension)
	m := Meta{Section: ext.StringAt("section"), Order: DefaultOrder}
	// Zero counts as unset.
	if f, ok := ext.Get("order").Float(); ok && f != 0 {
		m.Order = f
	}
	return m
}

// Entry is one flattened (path, verb, operation) triple.
type Entry struct {
	Path   string
	Method string
	Op     *oas.Node
	Meta   Meta
}

// Flatten lists every operation of a paths object in path then verb order.
func Flatten(paths *oas.Node) []Entry {
	var out []Entry
	oas.EachOperation(paths, func(path, method string, _, op *oas.Node) {
		out = append(out, Entry{Path: path, Method: method, Op: op, Meta: MetaOf(op)})
	})
	return out
}

// SortEntries orders entries by section name, then by order within a section. Operations
// without a section sort after every sectioned operation. The sort is stable.
func SortEntries(entries []Entry) {
	col := collate.New(language.Und)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if a.Meta.HasSection() != b.Meta.HasSection() {
			if a.Meta.HasSection() {
				return -1
			}
			return 1
		}
		if a.Meta.Section != b.Meta.Section {
			if c := col.CompareString(a.Meta.Section, b.Meta.Section); c != 0 {
				return c
			}
		}
		switch {
		case a.Meta.Order < b.Meta.Order:
			return -1
		case a.Meta.Order > b.Meta.Order:
			return 1
		default:
			return 0
		}
	})
}

// SortByOrder returns a paths object whose iteration order follows the sorted operations.
// A path with several verbs takes the position of its earliest-sorted verb. Path items
// are carried over unchanged.
func SortByOrder(paths *oas.Node) *oas.Node {
	entries := Flatten(paths)
	SortEntries(entries)

	sorted := oas.Object()
	for _, e := range entries {
		if !sorted.Has(e.Path) {
			sorted.Set(e.Path, paths.Get(e.Path))
		}
	}
	return sorted
}

// Sections lists the distinct sections used in paths, ordered by the smallest order hint
// seen in each. Sections sharing a minimum keep first-seen order.
func Sections(paths *oas.Node) []string {
	var names []string
	minOrder := map[string]float64{}

	for _, e := range Flatten(paths) {
		if !e.Meta.HasSection() {
			continue
		}
		cur, ok := minOrder[e.Meta.Section]
		if !ok {
			names = append(names, e.Meta.Section)
			minOrder[e.Meta.Section] = e.Meta.Order
			continue
		}
		if e.Meta.Order < cur {
			minOrder[e.Meta.Section] = e.Meta.Order
		}
	}

	slices.SortStableFunc(names, func(a, b string) int {
		switch {
		case minOrder[a] < minOrder[b]:
			return -1
		case minOrder[a] > minOrder[b]:
			return 1
		default:
			return 0
		}
	})
	return names
}
