package links

import (
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/slug"
	"git.home.luguber.info/inful/specsplit/internal/util/sets"
)

// DefaultBase is the site path under which per-tag documentation lives.
const DefaultBase = "/docs/api"

// Resolver turns parsed links into site paths. All lookups are read-only after
// construction, so one Resolver can serve several tags concurrently.
type Resolver struct {
	Base       string
	Operations map[string]OperationRef
	Schemas    map[string]string
	// ValidTags restricts tag links; nil accepts every tag.
	ValidTags sets.Set[string]
}

// OperationURL is the page of an operation inside its owning tag.
func (r *Resolver) OperationURL(tag, operationID string) string {
	return r.base() + "/" + slug.Tag(tag) + "/" + slug.Operation(operationID)
}

// SchemaURL is the page of a schema inside its owning tag.
func (r *Resolver) SchemaURL(tag, schemaName string) string {
	return r.base() + "/" + slug.Tag(tag) + "/schemas/" + slug.Schema(schemaName)
}

// TagURL is the overview page of a tag.
func (r *Resolver) TagURL(tag string) string {
	s := slug.Tag(tag)
	return r.base() + "/" + s + "/" + s + "-api"
}

func (r *Resolver) base() string {
	if r.Base == "" {
		return DefaultBase
	}
	return strings.TrimSuffix(r.Base, "/")
}

// Resolve returns the site path for l, or ok=false when its target is unknown.
// Operation links resolve against the operation's owning tag, not the tag named in the
// link.
func (r *Resolver) Resolve(l Link) (target string, ok bool) {
	switch l.Kind {
	case KindSchema:
		tag, found := r.Schemas[l.Schema]
		if !found {
			return "", false
		}
		return r.SchemaURL(tag, l.Schema), true
	case KindOperation:
		ref, found := r.Operations[l.OperationID]
		if !found {
			return "", false
		}
		return r.OperationURL(ref.Tag, l.OperationID), true
	case KindTag:
		if r.ValidTags != nil && !r.ValidTags.Has(l.Tag) {
			return "", false
		}
		return r.TagURL(l.Tag), true
	default:
		return "", false
	}
}

// Transformer rewrites every description in an output document.
type Transformer struct {
	resolver *Resolver
}

// NewTransformer returns a Transformer backed by r.
func NewTransformer(r *Resolver) *Transformer {
	return &Transformer{resolver: r}
}

// Description rewrites the internal links of one description. Resolved links point at
// site paths; unresolved links are reduced to their display text and recorded in rep.
func (t *Transformer) Description(text, currentTag string, rep *Report) string {
	found := Parse(text)
	if len(found) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, l := range found {
		b.WriteString(text[last:l.Start])
		last = l.End

		target, ok := t.resolver.Resolve(l)
		if !ok {
			rep.recordBroken(l, currentTag)
			b.WriteString(l.Text)
			continue
		}
		rep.recordResolved(l, currentTag)
		b.WriteString("[" + l.Text + "](" + target + ")")
	}
	b.WriteString(text[last:])
	return b.String()
}

// Document rewrites info.description, every description below paths and
// components.schemas, and each tag description of doc in place. The returned report
// covers this call only.
func (t *Transformer) Document(doc *oas.Node, currentTag string) *Report {
	rep := &Report{}

	if info := doc.Get("info"); info.Get("description").IsString() {
		info.Set("description", oas.String(t.Description(info.StringAt("description"), currentTag, rep)))
	}

	t.walk(doc.Get("paths"), currentTag, rep)
	t.walk(oas.Lookup(doc, "components", "schemas"), currentTag, rep)

	if list := doc.Get("tags"); list.IsArray() {
		for _, tag := range list.Items {
			if d := tag.Get("description"); d.IsString() && d.Str != "" {
				tag.Set("description", oas.String(t.Description(d.Str, currentTag, rep)))
			}
		}
	}

	return rep
}

func (t *Transformer) walk(n *oas.Node, currentTag string, rep *Report) {
	oas.Walk(n, func(v *oas.Node) {
		if d := v.Get("description"); d.IsString() && d.Str != "" {
			d.Str = t.Description(d.Str, currentTag, rep)
		}
	})
}
