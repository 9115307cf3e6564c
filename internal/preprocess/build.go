package preprocess

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/specsplit/internal/adapter"
	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/logfields"
	"git.home.luguber.info/inful/specsplit/internal/observability"
	"git.home.luguber.info/inful/specsplit/internal/schema"
	"git.home.luguber.info/inful/specsplit/internal/tags"
)

// buildTag runs the per-tag pipeline: sort, tree-shake, describe, assemble, rewrite links,
// verify and serialize. It only reads sh and owns b.
func buildTag(ctx context.Context, sh *shared, b *tags.Bucket) (*TagResult, error) {
	def := sh.tagTable.Get(b.Tag)
	sorted := tags.SortByOrder(b.Paths)
	st := tags.StatsOf(sorted)

	resolved := schema.Resolve(sorted, sh.allSchemas)
	sst := schema.StatsOf(sh.allSchemas, resolved.Schemas)
	if len(resolved.Missing) > 0 {
		observability.WarnContext(ctx, "Referenced schemas missing from source",
			logfields.Count(len(resolved.Missing)), slog.Any("schemas", resolved.Missing))
	}

	description, found := sh.overviews.Describe(b.Tag, def, st)

	doc := adapter.Build(adapter.Input{
		Tag:         b.Tag,
		Def:         def,
		Paths:       sorted,
		Schemas:     resolved.Schemas,
		Description: description,
		Source:      sh.source,
		Servers:     sh.servers,
	})

	linkReport := sh.transformer.Document(doc, b.Tag)

	closure := schema.CheckClosure(doc)
	if len(closure.Unreachable) > 0 || !slices.Equal(closure.Missing, resolved.Missing) {
		return nil, errors.BuildFailed("verify", fmt.Errorf("schema closure broken: unreachable=%v missing=%v",
			closure.Unreachable, closure.Missing)).WithContext("tag", b.Tag)
	}

	data, err := doc.Indent()
	if err != nil {
		return nil, errors.InternalError("failed to serialize document", err).WithContext("tag", b.Tag)
	}
	if sh.validator != nil {
		if err := sh.validator.Document(data); err != nil {
			return nil, errors.DocumentInvalid(b.Tag, err)
		}
	}

	observability.DebugContext(ctx, "Built tag document",
		logfields.Count(st.Endpoints), logfields.File(adapter.FileName(b.Tag)+outputExt))

	return &TagResult{
		Tag:            b.Tag,
		FileName:       adapter.FileName(b.Tag) + outputExt,
		Stats:          st,
		Schemas:        sst.Resolved,
		Reduction:      sst.ReductionPercent,
		HasOverview:    found,
		MissingSchemas: resolved.Missing,
		Links:          linkReport.Stats,
		broken:         linkReport.Broken,
		data:           data,
	}, nil
}
