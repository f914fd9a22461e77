package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/cybertec-postgresql/pgsplit/internal/runner"
	"github.com/cybertec-postgresql/pgsplit/internal/verify"
)

// TextReporter writes human-readable output
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// FormatSplit prints every statement followed by a semicolon, on a line of
// its own when the statement ends in a -- comment. A header comment names
// each file when there is more than one.
func (r *TextReporter) FormatSplit(files []*SplitFile, writer io.Writer) error {
	w := bufio.NewWriter(writer)
	for i, f := range files {
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "-- file: %s\n", f.File)
		}
		for j, stmt := range f.Statements {
			fmt.Fprintf(w, "%s%s\n", stmt, f.terminator(j))
		}
	}
	return w.Flush()
}

// FormatCheck prints one line per file and a summary line
func (r *TextReporter) FormatCheck(results []*verify.Result, writer io.Writer) error {
	w := bufio.NewWriter(writer)
	counts := map[verify.Status]int{}
	for _, res := range results {
		counts[res.Status]++
		switch res.Status {
		case verify.StatusAgree:
			if res.Unterminated != "" {
				fmt.Fprintf(w, "%-8s %s (unterminated %s)\n", res.Status, res.File, res.Unterminated)
			} else {
				fmt.Fprintf(w, "%-8s %s (%d statements)\n", res.Status, res.File, res.Splitter)
			}
		case verify.StatusMismatch:
			fmt.Fprintf(w, "%-8s %v\n", res.Status, res.Err())
		default:
			fmt.Fprintf(w, "%-8s %s: %s\n", res.Status, res.File, res.ParserError)
		}
	}
	fmt.Fprintf(w, "\n%d files: %d agree, %d mismatch, %d skipped\n",
		len(results), counts[verify.StatusAgree], counts[verify.StatusMismatch], counts[verify.StatusSkipped])
	return w.Flush()
}

// FormatRuns prints one line per file and the execution summary
func (r *TextReporter) FormatRuns(runs []*runner.FileRun, summary *runner.Summary, writer io.Writer) error {
	w := bufio.NewWriter(writer)
	for _, run := range runs {
		switch run.Status {
		case runner.RunPassed:
			fmt.Fprintf(w, "[PASS]    %s (%d statements, %s)\n", run.File.RelativePath, run.Executed, run.Duration().Round(time.Millisecond))
		case runner.RunTimeout:
			fmt.Fprintf(w, "[TIMEOUT] %s: %v\n", run.File.RelativePath, run.Error)
		default:
			fmt.Fprintf(w, "[FAIL]    %s: %v\n", run.File.RelativePath, run.Error)
		}
	}
	fmt.Fprintf(w, "\nFiles: %d passed, %d failed, %d timed out\n", summary.PassedFiles, summary.FailedFiles, summary.TimedOutFiles)
	fmt.Fprintf(w, "Statements: %d of %d executed\n", summary.Executed, summary.Statements)
	return w.Flush()
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}
