// Package metrics records task and run metrics for elementbuild.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless a real implementation is
// wired in:
//
//	reg := prometheus.NewRegistry()
//	r := runner.New(runner.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	...
//	_ = metrics.WriteTextfile("elementbuild.prom", reg)
//
// WriteTextfile produces the node-exporter textfile format, which suits a
// CLI that exits after each run.
package metrics
