package tags

import (
	"git.home.luguber.info/inful/specsplit/internal/oas"
)

// Bucket is the subset of a document's paths belonging to one tag. Each bucket owns deep
// copies of its path items and operations.
type Bucket struct {
	Tag   string
	Paths *oas.Node
}

// Split partitions every operation in doc into per-tag buckets. An operation with several
// tags is copied into each of them; an operation without tags goes to the untagged bucket.
// Buckets are returned in the order their tag is first seen.
func Split(doc *oas.Node, untagged string) []*Bucket {
	if untagged == "" {
		untagged = DefaultUntagged
	}

	var buckets []*Bucket
	byTag := map[string]*Bucket{}

	oas.EachOperation(doc.Get("paths"), func(path, method string, item, op *oas.Node) {
		names := op.Get("tags").StringSlice()
		if len(names) == 0 {
			names = []string{untagged}
		}

		for _, name := range names {
			b, ok := byTag[name]
			if !ok {
				b = &Bucket{Tag: name, Paths: oas.Object()}
				byTag[name] = b
				buckets = append(buckets, b)
			}

			target := b.Paths.Get(path)
			if target == nil {
				target = oas.Object()
				for _, field := range oas.PathLevelFields {
					if v := item.Get(field); v != nil {
						target.Set(field, v.Clone())
					}
				}
				b.Paths.Set(path, target)
			}
			target.Set(method, op.Clone())
		}
	})

	return buckets
}
