package metrics

import "time"

// OutcomeLabel enumerates task outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
	OutcomeSkipped OutcomeLabel = "skipped"
)

// FileResultLabel enumerates what happened to a source file.
type FileResultLabel string

const (
	FilesWritten  FileResultLabel = "written"
	FilesUpToDate FileResultLabel = "up_to_date"
	FilesFailed   FileResultLabel = "failed"
)

// Recorder defines observability hooks for task runs. Implementations must
// be safe for concurrent use.
type Recorder interface {
	ObserveTaskDuration(task string, d time.Duration)
	IncTaskOutcome(task string, outcome OutcomeLabel)
	AddFiles(task string, result FileResultLabel, n int)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTaskDuration(string, time.Duration) {}
func (NoopRecorder) IncTaskOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) AddFiles(string, FileResultLabel, int)     {}
func (NoopRecorder) ObserveRunDuration(time.Duration)          {}
