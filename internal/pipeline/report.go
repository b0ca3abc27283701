package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// RunStatus is the state of one conversion run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// FileStatus is the outcome for one output file.
type FileStatus string

const (
	FileWritten   FileStatus = "written"
	FileUnchanged FileStatus = "unchanged"
	FileFailed    FileStatus = "failed"
)

// FileResult records what happened to one output file.
type FileResult struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
	Bytes  int        `json:"bytes"`
	Hash   string     `json:"sha256"`
	Error  string     `json:"error,omitempty"`
}

// Report tracks a run. It is safe for concurrent use.
type Report struct {
	mu sync.Mutex

	RunID      string
	Mode       string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time

	files []FileResult
	err   string
}

func NewReport(runID, mode string) *Report {
	return &Report{
		RunID:     runID,
		Mode:      mode,
		Status:    RunRunning,
		StartedAt: time.Now(),
	}
}

// AddFile records a file outcome.
func (r *Report) AddFile(f FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

// Finish marks the run completed, or failed when err is non-nil.
func (r *Report) Finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now()
	if err != nil {
		r.Status = RunFailed
		r.err = err.Error()
		return
	}
	r.Status = RunCompleted
}

// Paths returns the output files that exist after the run.
func (r *Report) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, f := range r.files {
		if f.Status != FileFailed {
			out = append(out, f.Path)
		}
	}
	return out
}

// ReportSnapshot is a read-only, JSON-safe copy of a report.
type ReportSnapshot struct {
	RunID      string       `json:"run_id"`
	Mode       string       `json:"mode"`
	Status     RunStatus    `json:"status"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at,omitzero"`
	Written    int          `json:"written"`
	Unchanged  int          `json:"unchanged"`
	Failed     int          `json:"failed"`
	Files      []FileResult `json:"files"`
	Error      string       `json:"error,omitempty"`
}

// Snapshot returns a JSON-safe copy of the report.
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := ReportSnapshot{
		RunID:      r.RunID,
		Mode:       r.Mode,
		Status:     r.Status,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Files:      append([]FileResult{}, r.files...),
		Error:      r.err,
	}
	for _, f := range r.files {
		switch f.Status {
		case FileWritten:
			s.Written++
		case FileUnchanged:
			s.Unchanged++
		case FileFailed:
			s.Failed++
		}
	}
	return s
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
