// Package metrics exposes Prometheus counters for wizard activity and a
// request latency histogram. A nil *Metrics is a valid no-op recorder.
package metrics
