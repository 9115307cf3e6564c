// Package preprocess drives the per-tag pipeline: it splits the master document, builds
// one validated document per tag, writes them and prints the run report.
package preprocess

import (
	"context"
	stdErrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/specsplit/internal/adapter"
	"git.home.luguber.info/inful/specsplit/internal/config"
	"git.home.luguber.info/inful/specsplit/internal/errors"
	"git.home.luguber.info/inful/specsplit/internal/links"
	"git.home.luguber.info/inful/specsplit/internal/logfields"
	"git.home.luguber.info/inful/specsplit/internal/metrics"
	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/observability"
	"git.home.luguber.info/inful/specsplit/internal/overview"
	"git.home.luguber.info/inful/specsplit/internal/tags"
	"git.home.luguber.info/inful/specsplit/internal/util/sets"
	"git.home.luguber.info/inful/specsplit/internal/validate"
)

// Stage names used for logging and metrics.
const (
	StageLoad    = "load"
	StageAnalyze = "analyze"
	StageBuild   = "build"
	StageWrite   = "write"
)

// TagResult describes one generated document.
type TagResult struct {
	Tag         string
	FileName    string
	Stats       tags.Stats
	Schemas     int
	Reduction   int
	HasOverview bool
	// MissingSchemas are referenced by the tag's operations but absent from the source.
	MissingSchemas []string
	Links          links.Stats
	Status         FileStatus

	broken []links.BrokenLink
	data   []byte
}

// Summary is the outcome of one run.
type Summary struct {
	RunID         string
	SourcePaths   int
	SourceSchemas int
	Overviews     int
	Operations    int
	Results       []*TagResult
	Links         links.Report
	Changes       Changes
	Duration      time.Duration
}

// Endpoints totals the endpoints across every generated document.
func (s *Summary) Endpoints() int {
	n := 0
	for _, r := range s.Results {
		n += r.Stats.Endpoints
	}
	return n
}

// MissingOverviews lists tags whose description was synthesized.
func (s *Summary) MissingOverviews() []string {
	var out []string
	for _, r := range s.Results {
		if !r.HasOverview {
			out = append(out, r.Tag)
		}
	}
	return out
}

// Runner executes the preprocessing pipeline for one configuration.
type Runner struct {
	cfg      *config.Config
	out      io.Writer
	verbose  bool
	recorder metrics.Recorder
}

// NewRunner creates a Runner that prints its report to stdout and records no metrics.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:      cfg,
		out:      os.Stdout,
		recorder: metrics.NoopRecorder{},
	}
}

// WithOutput sets where the run report is printed.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

// WithVerbose adds per-tag detail to the run report.
func (r *Runner) WithVerbose(v bool) *Runner {
	r.verbose = v
	return r
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// shared holds the read-only state every tag build uses.
type shared struct {
	source      *oas.Node
	allSchemas  *oas.Node
	tagTable    *tags.Table
	overviews   *overview.Table
	transformer *links.Transformer
	validator   *validate.Validator
	servers     []adapter.Server
}

// Run executes the pipeline. Nothing is written unless every tag document builds and
// validates.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.NewString()}
	ctx = observability.WithRunID(ctx, sum.RunID)
	rep := &reporter{w: r.out, verbose: r.verbose}

	err := r.run(ctx, sum, rep)
	sum.Duration = time.Since(start)
	r.recorder.ObserveRunDuration(sum.Duration)

	switch {
	case err != nil:
		r.recorder.IncRunOutcome(metrics.OutcomeFailed)
		observability.ErrorContext(ctx, "Preprocessing failed", logfields.Error(err))
	case len(sum.Links.Broken) > 0:
		r.recorder.IncRunOutcome(metrics.OutcomeWarning)
	default:
		r.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	}
	r.writeMetrics(ctx)
	return sum, err
}

func (r *Runner) run(ctx context.Context, sum *Summary, rep *reporter) error {
	rep.header()

	stageStart := time.Now()
	lctx := observability.WithStage(ctx, StageLoad)
	src, err := loadSource(r.cfg.Source)
	if err != nil {
		return err
	}
	sh := &shared{
		source:     src,
		allSchemas: oas.Lookup(src, "components", "schemas"),
		servers:    r.cfg.DefaultServers,
	}
	if sh.allSchemas == nil {
		sh.allSchemas = oas.Object()
	}
	sum.SourcePaths = src.Get("paths").Len()
	sum.SourceSchemas = sh.allSchemas.Len()
	rep.loaded(sum.SourcePaths, sum.SourceSchemas)

	sh.overviews, err = overview.Load(r.cfg.OverviewsDir)
	if err != nil {
		observability.WarnContext(lctx, "Could not read overviews directory; using default descriptions",
			logfields.Path(r.cfg.OverviewsDir), logfields.Error(err))
		sh.overviews = overview.NewTable(nil)
	}
	sum.Overviews = len(sh.overviews.Files())
	rep.overviews(sum.Overviews)
	r.recorder.ObserveStageDuration(StageLoad, time.Since(stageStart))

	stageStart = time.Now()
	sh.tagTable = tags.Extract(src)
	buckets := tags.Split(src, r.cfg.UntaggedTag)
	rep.tags(len(buckets))

	validTags := sets.New[string]()
	for _, b := range buckets {
		validTags.Add(b.Tag)
	}
	resolver := &links.Resolver{
		Base:       r.cfg.LinkBase(),
		Operations: links.BuildOperationLookup(src, r.cfg.UntaggedTag),
		Schemas:    links.BuildSchemaLookup(src, r.cfg.UntaggedTag, r.cfg.SchemaTagPrefixes),
		ValidTags:  validTags,
	}
	sum.Operations = len(resolver.Operations)
	rep.lookups(len(resolver.Operations), len(resolver.Schemas))
	sh.transformer = links.NewTransformer(resolver)

	if !r.cfg.SkipValidation {
		if sh.validator, err = validate.New(); err != nil {
			return errors.InternalError("output schema does not compile", err)
		}
	}
	r.recorder.ObserveStageDuration(StageAnalyze, time.Since(stageStart))

	stageStart = time.Now()
	results, err := r.buildAll(observability.WithStage(ctx, StageBuild), sh, buckets)
	if err != nil {
		return err
	}
	if err := checkFileNames(results); err != nil {
		return err
	}
	sum.Results = results
	for _, res := range results {
		sum.Links.Stats.Add(res.Links)
	}
	r.recorder.ObserveStageDuration(StageBuild, time.Since(stageStart))

	stageStart = time.Now()
	changes, err := writeOutputs(observability.WithStage(ctx, StageWrite), r.cfg.OutputDir, results, rep)
	if err != nil {
		return err
	}
	sum.Changes = changes
	r.recorder.ObserveStageDuration(StageWrite, time.Since(stageStart))

	r.recordResults(sum)
	rep.results(sum, r.cfg.OutputDir)
	return nil
}

// buildAll builds every tag document concurrently and returns them in bucket order.
func (r *Runner) buildAll(ctx context.Context, sh *shared, buckets []*tags.Bucket) ([]*TagResult, error) {
	results := make([]*TagResult, len(buckets))

	g, gctx := errgroup.WithContext(ctx)
	if r.cfg.Parallelism > 0 {
		g.SetLimit(r.cfg.Parallelism)
	}
	for i, b := range buckets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := buildTag(observability.WithTag(gctx, b.Tag), sh, b)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) recordResults(sum *Summary) {
	for _, res := range sum.Results {
		sum.Links.Broken = append(sum.Links.Broken, res.broken...)
		r.recorder.SetSchemaReduction(res.Tag, res.Reduction)
	}
	st := sum.Links.Stats
	r.recorder.AddLinks("operation", st.Transformed-st.SchemaLinks)
	r.recorder.AddLinks("schema", st.SchemaLinks)
	r.recorder.AddLinks("tag", st.TagLinks)
	r.recorder.AddLinks("not_found", st.NotFound)
	r.recorder.SetDocuments(len(sum.Results))
}

type textfileWriter interface {
	WriteTextfile(path string) error
}

func (r *Runner) writeMetrics(ctx context.Context) {
	path := r.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	w, ok := r.recorder.(textfileWriter)
	if !ok {
		return
	}
	if err := w.WriteTextfile(path); err != nil {
		observability.WarnContext(ctx, "Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

func loadSource(path string) (*oas.Node, error) {
	data, err := os.ReadFile(path)
	switch {
	case stdErrors.Is(err, fs.ErrNotExist):
		return nil, errors.SourceNotFound(path)
	case err != nil:
		return nil, errors.Wrap(err, errors.CategorySource, errors.SeverityFatal, "source specification unreadable").
			WithContext("path", path)
	}

	doc, err := oas.Parse(data)
	if err != nil {
		return nil, errors.SourceInvalid(path, err)
	}
	if !doc.IsObject() {
		return nil, errors.SourceInvalid(path, stdErrors.New("top-level value is not an object"))
	}
	slog.Debug("Loaded source specification", logfields.Path(path), logfields.Count(doc.Get("paths").Len()))
	return doc, nil
}
