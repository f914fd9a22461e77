package runner

import (
	"time"

	"github.com/cybertec-postgresql/pgsplit/internal/discovery"
)

// FileRun represents the execution of one SQL file
type FileRun struct {
	File       *discovery.DiscoveredFile
	Database   string // scratch database name, empty when running in place
	StartTime  time.Time
	EndTime    time.Time
	Status     RunStatus
	Statements int   // statements found in the file
	Executed   int   // statements that completed successfully
	Error      error // Non-nil if the file failed
}

// RunStatus represents the current state of a file execution
type RunStatus int

const (
	RunPending RunStatus = iota
	RunRunning
	RunPassed
	RunFailed
	RunTimeout
)

// String returns a string representation of RunStatus
func (rs RunStatus) String() string {
	switch rs {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunPassed:
		return "passed"
	case RunFailed:
		return "failed"
	case RunTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Duration returns the execution duration
func (fr *FileRun) Duration() time.Duration {
	if fr.EndTime.IsZero() {
		return time.Since(fr.StartTime)
	}
	return fr.EndTime.Sub(fr.StartTime)
}

// Summary summarizes all file executions
type Summary struct {
	TotalFiles    int
	PassedFiles   int
	FailedFiles   int
	TimedOutFiles int
	Statements    int
	Executed      int
	TotalDuration time.Duration
}

// AllPassed returns true if every file ran to completion
func (s *Summary) AllPassed() bool {
	return s.FailedFiles == 0 && s.TimedOutFiles == 0
}

// ExitCode returns the appropriate exit code based on execution results
func (s *Summary) ExitCode() int {
	if s.AllPassed() {
		return 0
	}
	return 1
}

// SummarizeRuns creates a summary of execution results
func SummarizeRuns(runs []*FileRun) *Summary {
	summary := &Summary{
		TotalFiles: len(runs),
	}

	for _, run := range runs {
		summary.TotalDuration += run.Duration()
		summary.Statements += run.Statements
		summary.Executed += run.Executed

		switch run.Status {
		case RunPassed:
			summary.PassedFiles++
		case RunFailed:
			summary.FailedFiles++
		case RunTimeout:
			summary.TimedOutFiles++
		}
	}

	return summary
}
