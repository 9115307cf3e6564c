package links

import (
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/schema"
	"git.home.luguber.info/inful/specsplit/internal/tags"
)

// OperationRef locates an operation and names the tag that owns it.
type OperationRef struct {
	Path   string
	Method string
	Tag    string
}

// PrefixRule assigns schemas whose name starts with Prefix to Tag when no operation
// references them.
type PrefixRule struct {
	Prefix string `yaml:"prefix"`
	Tag    string `yaml:"tag"`
}

func owningTag(op *oas.Node, untagged string) string {
	if names := op.Get("tags").StringSlice(); len(names) > 0 {
		return names[0]
	}
	if untagged == "" {
		return tags.DefaultUntagged
	}
	return untagged
}

// BuildOperationLookup indexes every operation with an operationId. The owning tag is the
// operation's first tag. A repeated operationId keeps the last occurrence.
func BuildOperationLookup(doc *oas.Node, untagged string) map[string]OperationRef {
	lookup := map[string]OperationRef{}
	oas.EachOperation(doc.Get("paths"), func(path, method string, _, op *oas.Node) {
		id := op.StringAt("operationId")
		if id == "" {
			return
		}
		lookup[id] = OperationRef{Path: path, Method: method, Tag: owningTag(op, untagged)}
	})
	return lookup
}

// BuildSchemaLookup maps schema names to the tag whose documentation hosts them.
//
// A schema belongs to the first tag (in document order) whose operations mention it
// directly. Schemas no operation mentions fall back to the first matching prefix rule;
// anything left over has no owner and links to it are unresolvable.
func BuildSchemaLookup(doc *oas.Node, untagged string, rules []PrefixRule) map[string]string {
	all := oas.Lookup(doc, "components", "schemas")
	lookup := map[string]string{}

	oas.EachOperation(doc.Get("paths"), func(_, _ string, _, op *oas.Node) {
		tag := owningTag(op, untagged)
		oas.Walk(op, func(v *oas.Node) {
			if !v.IsString() || !strings.HasPrefix(v.Str, schema.RefPrefix) {
				return
			}
			name := strings.TrimPrefix(v.Str, schema.RefPrefix)
			if _, seen := lookup[name]; seen || !all.Has(name) {
				return
			}
			lookup[name] = tag
		})
	})

	for _, name := range all.Keys() {
		if _, ok := lookup[name]; ok {
			continue
		}
		for _, r := range rules {
			if r.Prefix != "" && strings.HasPrefix(name, r.Prefix) {
				lookup[name] = r.Tag
				break
			}
		}
	}

	return lookup
}
