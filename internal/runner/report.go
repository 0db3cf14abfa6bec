package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Outcome is the final state of a task within a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// TaskResult records one task execution.
type TaskResult struct {
	Name     string        `json:"name"`
	Outcome  Outcome       `json:"outcome"`
	Duration time.Duration `json:"duration_ns"`
	Files    Stats         `json:"files"`
	Error    string        `json:"error,omitempty"`
}

// Report captures one invocation of Run.
type Report struct {
	RunID string       `json:"run_id"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
	Plan  []string     `json:"plan"`
	Tasks []TaskResult `json:"tasks"`
}

// Failed reports whether any task failed or any file could not be built.
func (r *Report) Failed() bool {
	for _, t := range r.Tasks {
		if t.Outcome == OutcomeFailed || t.Files.Failed > 0 {
			return true
		}
	}
	return false
}

// Totals sums file counts over all tasks.
func (r *Report) Totals() Stats {
	var s Stats
	for _, t := range r.Tasks {
		s.Written += t.Files.Written
		s.UpToDate += t.Files.UpToDate
		s.Failed += t.Files.Failed
	}
	return s
}

// Summary returns a one-line human readable summary.
func (r *Report) Summary() string {
	counts := map[Outcome]int{}
	for _, t := range r.Tasks {
		counts[t.Outcome]++
	}
	tot := r.Totals()
	return fmt.Sprintf("run=%s tasks=%d success=%d failed=%d skipped=%d files_written=%d up_to_date=%d files_failed=%d duration=%s",
		r.RunID, len(r.Tasks), counts[OutcomeSuccess], counts[OutcomeFailed], counts[OutcomeSkipped],
		tot.Written, tot.UpToDate, tot.Failed, r.End.Sub(r.Start).Round(time.Millisecond))
}

// String renders a per-task table.
func (r *Report) String() string {
	var sb strings.Builder
	for _, t := range r.Tasks {
		fmt.Fprintf(&sb, "%-20s %-8s %8s  written=%d up_to_date=%d failed=%d",
			t.Name, t.Outcome, t.Duration.Round(time.Millisecond), t.Files.Written, t.Files.UpToDate, t.Files.Failed)
		if t.Error != "" {
			fmt.Fprintf(&sb, "  error=%s", t.Error)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(r.Summary())
	sb.WriteByte('\n')
	return sb.String()
}

// Persist writes the report as JSON to path atomically.
func (r *Report) Persist(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure dir for report: %w", err)
		}
	}
	jb, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, jb, 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}
