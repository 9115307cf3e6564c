package links

import (
	"fmt"
	"io"
)

// Stats counts link rewrites.
type Stats struct {
	// Transformed counts resolved operation and schema links.
	Transformed int
	SameTag     int
	CrossTag    int
	NotFound    int
	TagLinks    int
	SchemaLinks int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Transformed += o.Transformed
	s.SameTag += o.SameTag
	s.CrossTag += o.CrossTag
	s.NotFound += o.NotFound
	s.TagLinks += o.TagLinks
	s.SchemaLinks += o.SchemaLinks
}

// BrokenLink is a link that was reduced to plain text because its target is unknown.
type BrokenLink struct {
	Kind Kind
	// SourceTag is the tag whose document contained the link.
	SourceTag string
	// TargetTag is the tag named in the link; "components" for schema links.
	TargetTag   string
	OperationID string
	Schema      string
	Original    string
	Text        string
}

// Report collects the counters and broken links of one transformation.
type Report struct {
	Stats  Stats
	Broken []BrokenLink
}

// Merge appends o's counters and broken links to r.
func (r *Report) Merge(o *Report) {
	if o == nil {
		return
	}
	r.Stats.Add(o.Stats)
	r.Broken = append(r.Broken, o.Broken...)
}

func (r *Report) recordResolved(l Link, currentTag string) {
	if r == nil {
		return
	}
	switch l.Kind {
	case KindSchema:
		r.Stats.SchemaLinks++
		r.Stats.Transformed++
	case KindOperation:
		r.Stats.Transformed++
		if l.Tag == currentTag {
			r.Stats.SameTag++
		} else {
			r.Stats.CrossTag++
		}
	case KindTag:
		r.Stats.TagLinks++
	}
}

func (r *Report) recordBroken(l Link, currentTag string) {
	if r == nil {
		return
	}
	r.Stats.NotFound++
	b := BrokenLink{
		Kind:        l.Kind,
		SourceTag:   currentTag,
		TargetTag:   l.Tag,
		OperationID: l.OperationID,
		Schema:      l.Schema,
		Original:    l.Original,
		Text:        l.Text,
	}
	if l.Kind == KindSchema {
		b.TargetTag = "components"
	}
	r.Broken = append(r.Broken, b)
}

// WriteBrokenLinks renders broken links grouped by the tag they were found in.
func WriteBrokenLinks(w io.Writer, broken []BrokenLink) {
	if len(broken) == 0 {
		fmt.Fprintln(w, "  No broken links found")
		return
	}

	fmt.Fprintf(w, "\n  Found %d broken link(s):\n", len(broken))

	var order []string
	byTag := map[string][]BrokenLink{}
	for _, b := range broken {
		if _, ok := byTag[b.SourceTag]; !ok {
			order = append(order, b.SourceTag)
		}
		byTag[b.SourceTag] = append(byTag[b.SourceTag], b)
	}

	for _, tag := range order {
		fmt.Fprintf(w, "\n  In %q:\n", tag)
		for _, b := range byTag[tag] {
			switch b.Kind {
			case KindOperation:
				fmt.Fprintf(w, "    - Missing operation: %s/%s\n", b.TargetTag, b.OperationID)
			case KindSchema:
				fmt.Fprintf(w, "    - Missing schema: %s\n", b.Schema)
			default:
				fmt.Fprintf(w, "    - Missing tag: %s\n", b.TargetTag)
			}
			fmt.Fprintf(w, "      Link: %s\n", b.Original)
		}
	}
}
