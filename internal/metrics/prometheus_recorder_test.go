package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveTaskDuration("sass:styles", 150*time.Millisecond)
	pr.IncTaskOutcome("sass:styles", OutcomeSuccess)
	pr.AddFiles("sass:styles", FilesWritten, 3)
	pr.AddFiles("sass:styles", FilesFailed, 0)
	pr.ObserveRunDuration(500 * time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 4)

	require.InDelta(t, 3, testutil.ToFloat64(pr.files.WithLabelValues("sass:styles", string(FilesWritten))), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.taskOutcomes.WithLabelValues("sass:styles", string(OutcomeSuccess))), 0)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveTaskDuration("x", time.Second)
		pr.IncTaskOutcome("x", OutcomeFailed)
		pr.AddFiles("x", FilesWritten, 1)
		pr.ObserveRunDuration(time.Second)
	})
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveTaskDuration("x", time.Second)
	r.IncTaskOutcome("x", OutcomeSkipped)
	r.AddFiles("x", FilesUpToDate, 2)
	r.ObserveRunDuration(time.Second)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncTaskOutcome("inline:elements", OutcomeFailed)

	path := filepath.Join(t.TempDir(), "nested", "elementbuild.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `elementbuild_task_outcomes_total{outcome="failed",task="inline:elements"} 1`)
}
