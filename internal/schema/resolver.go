// Package schema tree-shakes component schemas down to the set reachable from a group of
// operations.
package schema

import (
	"math"
	"regexp"
	"slices"

	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/util/sets"
)

// RefPrefix is the pointer prefix of a component schema reference.
const RefPrefix = "#/components/schemas/"

var schemaRef = regexp.MustCompile(`#/components/schemas/(.+)$`)

// NameFromRef extracts the schema name from a $ref pointer, or "" when the pointer does not
// target components.schemas.
func NameFromRef(ref string) string {
	m := schemaRef.FindStringSubmatch(ref)
	if m == nil {
		return ""
	}
	return m[1]
}

// CollectRefs adds the name of every schema referenced anywhere below n to refs.
func CollectRefs(n *oas.Node, refs sets.Set[string]) {
	oas.Walk(n, func(v *oas.Node) {
		if name := NameFromRef(v.Get("$ref").Text()); name != "" {
			refs.Add(name)
		}
	})
}

// Result is the outcome of resolving the schemas needed by a paths object.
type Result struct {
	// Schemas holds the needed schemas sorted by name.
	Schemas *oas.Node
	// Missing lists referenced names with no definition, sorted.
	Missing []string
}

// Resolve returns the schemas from all that are transitively referenced by paths.
// Resolution membership guards the loop, so reference cycles terminate.
func Resolve(paths, all *oas.Node) Result {
	needed := sets.New[string]()
	resolved := sets.New[string]()
	CollectRefs(paths, needed)

	for changed := true; changed; {
		changed = false
		for _, name := range sets.Sorted(needed) {
			if !resolved.Add(name) {
				continue
			}
			def := all.Get(name)
			if def == nil {
				continue
			}
			found := sets.New[string]()
			CollectRefs(def, found)
			for ref := range found {
				if needed.Add(ref) {
					changed = true
				}
			}
		}
	}

	res := Result{Schemas: oas.Object()}
	for _, name := range sets.Sorted(needed) {
		if def := all.Get(name); def != nil {
			res.Schemas.Set(name, def.Clone())
		} else {
			res.Missing = append(res.Missing, name)
		}
	}
	return res
}

// Stats describes how much a resolution reduced the schema table.
type Stats struct {
	Total            int
	Resolved         int
	Removed          int
	ReductionPercent int
}

// StatsOf compares the full schema table with a resolved subset.
func StatsOf(all, resolved *oas.Node) Stats {
	st := Stats{Total: all.Len(), Resolved: resolved.Len()}
	st.Removed = st.Total - st.Resolved
	if st.Total > 0 {
		st.ReductionPercent = int(math.Floor((1-float64(st.Resolved)/float64(st.Total))*100 + 0.5))
	}
	return st
}

// Closure reports how a document's schemas relate to what its paths reach.
type Closure struct {
	// Missing are reachable names with no schema in the document.
	Missing []string
	// Unreachable are schemas in the document that its paths never reach.
	Unreachable []string
}

// OK reports whether the document's schema set is exactly the reachable set.
func (c Closure) OK() bool { return len(c.Missing) == 0 && len(c.Unreachable) == 0 }

// CheckClosure verifies that every schema reachable from doc.paths is present in
// doc.components.schemas and that no schema there is unreachable.
func CheckClosure(doc *oas.Node) Closure {
	schemas := oas.Lookup(doc, "components", "schemas")
	reach := Resolve(doc.Get("paths"), schemas)

	c := Closure{Missing: reach.Missing}
	for _, name := range schemas.Keys() {
		if !reach.Schemas.Has(name) {
			c.Unreachable = append(c.Unreachable, name)
		}
	}
	slices.Sort(c.Unreachable)
	return c
}
