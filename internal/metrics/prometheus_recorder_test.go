package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("resolve", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.AddLinks("not_found", 2)
	pr.AddLinks("cross_tag", 0)
	pr.SetSchemaReduction("Users", 71)
	pr.SetDocuments(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"specsplit_stage_duration_seconds",
		"specsplit_run_duration_seconds",
		"specsplit_run_outcomes_total",
		"specsplit_links_total",
		"specsplit_schema_reduction_percent",
		"specsplit_documents",
	} {
		assert.True(t, names[want], want)
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncRunOutcome(OutcomeFailed)
		pr.SetDocuments(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetDocuments(2)
	pr.SetSchemaReduction("Assets", 40)

	path := filepath.Join(t.TempDir(), "specsplit.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "specsplit_documents 2")
	assert.Contains(t, string(data), `specsplit_schema_reduction_percent{tag="Assets"} 40`)
}
