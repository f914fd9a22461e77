package report

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/pgsplit/internal/errors"
	"github.com/cybertec-postgresql/pgsplit/internal/runner"
	"github.com/cybertec-postgresql/pgsplit/internal/verify"
)

// JSONReporter formats results as JSON
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// FormatSplit writes the statements and split points of every file
func (r *JSONReporter) FormatSplit(files []*SplitFile, writer io.Writer) error {
	if files == nil {
		files = []*SplitFile{}
	}
	return r.write(map[string]any{"files": files}, writer)
}

// FormatCheck writes the comparison result of every file
func (r *JSONReporter) FormatCheck(results []*verify.Result, writer io.Writer) error {
	mismatches := 0
	for _, res := range results {
		if res.Status == verify.StatusMismatch {
			mismatches++
		}
	}
	if results == nil {
		results = []*verify.Result{}
	}
	return r.write(map[string]any{
		"files":      results,
		"mismatches": mismatches,
	}, writer)
}

type jsonRun struct {
	File       string `json:"file"`
	Status     string `json:"status"`
	Database   string `json:"database,omitempty"`
	Statements int    `json:"statements"`
	Executed   int    `json:"executed"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	FailedLine int    `json:"failed_line,omitempty"`
	SQLState   string `json:"sqlstate,omitempty"`
	FailedSQL  string `json:"failed_sql,omitempty"`
}

type jsonSummary struct {
	Files      int   `json:"files"`
	Passed     int   `json:"passed"`
	Failed     int   `json:"failed"`
	TimedOut   int   `json:"timed_out"`
	Statements int   `json:"statements"`
	Executed   int   `json:"executed"`
	DurationMS int64 `json:"duration_ms"`
}

// FormatRuns writes execution results and their summary
func (r *JSONReporter) FormatRuns(runs []*runner.FileRun, summary *runner.Summary, writer io.Writer) error {
	out := make([]jsonRun, 0, len(runs))
	for _, run := range runs {
		jr := jsonRun{
			File:       run.File.RelativePath,
			Status:     run.Status.String(),
			Database:   run.Database,
			Statements: run.Statements,
			Executed:   run.Executed,
			DurationMS: run.Duration().Milliseconds(),
		}
		if run.Error != nil {
			jr.Error = run.Error.Error()
			var stmtErr *errors.StatementError
			if stderrors.As(run.Error, &stmtErr) {
				jr.FailedLine = stmtErr.Line
				jr.FailedSQL = stmtErr.SQL
				if stmtErr.SQLError != nil {
					jr.SQLState = stmtErr.SQLError.Code
				}
			}
		}
		out = append(out, jr)
	}

	return r.write(map[string]any{
		"files": out,
		"summary": jsonSummary{
			Files:      summary.TotalFiles,
			Passed:     summary.PassedFiles,
			Failed:     summary.FailedFiles,
			TimedOut:   summary.TimedOutFiles,
			Statements: summary.Statements,
			Executed:   summary.Executed,
			DurationMS: summary.TotalDuration.Milliseconds(),
		},
	}, writer)
}

func (r *JSONReporter) write(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	_, err = writer.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	// Add newline
	_, err = writer.Write([]byte("\n"))
	return err
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
