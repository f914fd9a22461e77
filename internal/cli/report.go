package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/pgsplit/internal/logger"
	"github.com/cybertec-postgresql/pgsplit/internal/report"
)

// Stdout is where reports go when no output file is configured
var Stdout io.Writer = os.Stdout

// writeReport renders a report with the configured formatter to the
// configured output
func writeReport(config *Config, render func(report.Formatter, io.Writer) error) error {
	if !report.ValidFormat(config.Format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", config.Format, report.SupportedFormats())
	}

	formatter, err := report.GetFormatter(report.FormatType(config.Format))
	if err != nil {
		return err
	}

	var w io.Writer = Stdout
	if config.Output != "-" && config.Output != "" {
		file, err := os.Create(config.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := render(formatter, w); err != nil {
		return fmt.Errorf("failed to write %s report: %w", formatter.Name(), err)
	}

	if config.Output != "-" && config.Output != "" {
		logger.Info("Report written to %s", config.Output)
	}
	return nil
}
