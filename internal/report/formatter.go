package report

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/pgsplit/internal/runner"
	"github.com/cybertec-postgresql/pgsplit/internal/verify"
)

// Formatter renders the results of the split, check and exec commands
type Formatter interface {
	// FormatSplit writes the statements of each file
	FormatSplit(files []*SplitFile, writer io.Writer) error

	// FormatCheck writes splitter/parser comparison results
	FormatCheck(results []*verify.Result, writer io.Writer) error

	// FormatRuns writes execution results and their summary
	FormatRuns(runs []*runner.FileRun, summary *runner.Summary, writer io.Writer) error

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported report formats
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
)

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextReporter(), nil
	case FormatJSON:
		return NewJSONReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}
