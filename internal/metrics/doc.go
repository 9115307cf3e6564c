// Package metrics records pipeline timings and counters.
//
// Components receive a Recorder; NoopRecorder is the default so callers never need nil
// checks. PrometheusRecorder registers its collectors on a caller-supplied registry and
// can dump them to a node_exporter textfile after a run.
package metrics
