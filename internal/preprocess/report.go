package preprocess

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/links"
)

const topTagCount = 5

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 60)
)

// reporter prints the human-readable run report. Logging goes through slog; this is
// the console summary operators read after a build.
type reporter struct {
	w       io.Writer
	verbose bool
}

func (r *reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *reporter) println(s ...any) {
	fmt.Fprintln(r.w, s...)
}

func (r *reporter) header() {
	r.println(heavyRule)
	r.println("Preprocessing OpenAPI Spec for Docusaurus")
	r.println(heavyRule)
	r.println()
	r.println("Loading source specification...")
}

func (r *reporter) loaded(paths, schemas int) {
	r.printf("  Loaded: %d paths, %d schemas\n\n", paths, schemas)
	r.println("Loading overview files...")
}

func (r *reporter) overviews(n int) {
	r.printf("  Found: %d overview files\n\n", n)
	r.println("Analyzing tags and endpoints...")
}

func (r *reporter) tags(n int) {
	r.printf("  Found: %d tags with endpoints\n\n", n)
}

func (r *reporter) lookups(operations, schemas int) {
	r.println("Building operation lookup for link transformation...")
	r.printf("  Indexed: %d operations\n", operations)
	r.println("Building schema lookup for link transformation...")
	r.printf("  Indexed: %d schemas\n\n", schemas)
}

func (r *reporter) created(dir string) {
	r.printf("Created output directory: %s\n", dir)
}

func (r *reporter) cleaning(n int) {
	if n > 0 {
		r.printf("Cleaning %d existing spec files...\n", n)
	}
	r.println()
}

func (r *reporter) results(sum *Summary, outputDir string) {
	r.println("Generating per-tag specifications:")
	r.println(lightRule)
	for _, res := range sum.Results {
		r.tagLine(res)
	}
	r.println(lightRule)
	r.println()

	r.summary(sum)
	r.topTags(sum.Results)

	if missing := sum.MissingOverviews(); len(missing) > 0 {
		r.printf("Tags missing overviews (%d):\n", len(missing))
		for _, tag := range missing {
			r.printf("  - %s\n", tag)
		}
		r.println()
	}

	if len(sum.Links.Broken) > 0 {
		r.println("Broken Links Report:")
		r.println(lightRule)
		links.WriteBrokenLinks(r.w, sum.Links.Broken)
		r.println()
	}

	r.changes(sum.Changes)

	r.println(heavyRule)
	r.println("Preprocessing complete!")
	r.printf("Output directory: %s\n", outputDir)
	r.println(heavyRule)
}

func (r *reporter) tagLine(res *TagResult) {
	overview := "No"
	if res.HasOverview {
		overview = "Yes"
	}
	r.printf("  %-20s | %3d endpoints | %3d schemas (%d%% reduction) | Overview: %s\n",
		res.Tag, res.Stats.Endpoints, res.Schemas, res.Reduction, overview)
	if !r.verbose {
		return
	}
	m := res.Stats.Methods
	r.printf("    -> %s\n", res.FileName)
	r.printf("    Methods: GET=%d, POST=%d, PUT=%d, DELETE=%d\n", m["get"], m["post"], m["put"], m["delete"])
	r.printf("    Sections: %d\n", res.Stats.Sections)
	if res.Links.Transformed > 0 {
		r.printf("    Links transformed: %d (%d same-tag, %d cross-tag)\n",
			res.Links.Transformed, res.Links.SameTag, res.Links.CrossTag)
	}
}

func (r *reporter) summary(sum *Summary) {
	withOverview := len(sum.Results) - len(sum.MissingOverviews())
	r.println("Summary:")
	r.printf("  Total specs generated: %d\n", len(sum.Results))
	r.printf("  Total endpoints: %d\n", sum.Endpoints())
	r.printf("  Average schemas per spec: %d\n", averageSchemas(sum.Results))
	r.printf("  Specs with overviews: %d/%d\n", withOverview, len(sum.Results))
	r.println()
}

func (r *reporter) topTags(results []*TagResult) {
	r.printf("Top %d tags by endpoint count:\n", topTagCount)
	for i, res := range topByEndpoints(results, topTagCount) {
		r.printf("  %d. %s: %d endpoints\n", i+1, res.Tag, res.Stats.Endpoints)
	}
	r.println()
}

func (r *reporter) changes(c Changes) {
	r.println("Output changes:")
	r.printf("  New: %d, Changed: %d, Unchanged: %d, Removed: %d\n",
		len(c.New), len(c.Changed), len(c.Unchanged), len(c.Removed))
	if r.verbose {
		for _, name := range c.Changed {
			r.printf("  ~ %s\n", name)
		}
		for _, name := range c.New {
			r.printf("  + %s\n", name)
		}
	}
	for _, name := range c.Removed {
		r.printf("  - %s\n", name)
	}
	r.println()
}

// averageSchemas rounds half up; zero results average zero.
func averageSchemas(results []*TagResult) int {
	if len(results) == 0 {
		return 0
	}
	total := 0
	for _, res := range results {
		total += res.Schemas
	}
	return (2*total + len(results)) / (2 * len(results))
}

// topByEndpoints orders a copy of results by endpoint count, keeping tag order on ties.
func topByEndpoints(results []*TagResult, n int) []*TagResult {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b *TagResult) int {
		return b.Stats.Endpoints - a.Stats.Endpoints
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
