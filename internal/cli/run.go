package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/pgsplit/internal/database"
	"github.com/cybertec-postgresql/pgsplit/internal/discovery"
	"github.com/cybertec-postgresql/pgsplit/internal/logger"
	"github.com/cybertec-postgresql/pgsplit/internal/parser"
	"github.com/cybertec-postgresql/pgsplit/internal/report"
	"github.com/cybertec-postgresql/pgsplit/internal/runner"
	"github.com/cybertec-postgresql/pgsplit/internal/verify"
	"github.com/cybertec-postgresql/pgsplit/internal/watch"
	"github.com/cybertec-postgresql/pgsplit/pkg/types"
)

// Split prints the statements of every file. The exit code is 1 when a file
// could not be read or ends inside an unterminated construct.
func Split(ctx context.Context, config *Config, paths []string) (int, error) {
	logger.SetVerbose(config.Verbose)

	files, err := discovery.DiscoverPaths(paths)
	if err != nil {
		return 1, fmt.Errorf("failed to discover files: %w", err)
	}

	scs, err := resolveDialect(ctx, config)
	if err != nil {
		return 1, err
	}
	logger.Debug("Splitting %d file(s), standard_conforming_strings=%v", len(files), scs)

	exitCode := 0
	var out []*report.SplitFile
	for i := range files {
		parsed, err := parser.Parse(&files[i], scs)
		if err != nil {
			logger.Error("%s: %v", files[i].RelativePath, err)
			exitCode = 1
			continue
		}
		if !parsed.Complete() {
			logger.Error("%v", parsed.Unterminated)
			exitCode = 1
		}
		out = append(out, report.NewSplitFile(parsed, config.StripComments, config.KeepEmpty))
	}

	err = writeReport(config, func(f report.Formatter, w io.Writer) error {
		return f.FormatSplit(out, w)
	})
	if err != nil {
		return 1, err
	}
	return exitCode, nil
}

// Check compares the splitter with the PostgreSQL parser for every file.
// The exit code is 1 when any file disagrees.
func Check(ctx context.Context, config *Config, paths []string) (int, error) {
	logger.SetVerbose(config.Verbose)

	if scs, known := config.Dialect(); known && !scs {
		logger.Warn("check always uses standard_conforming_strings=on, as the PostgreSQL parser does")
	}

	files, err := discovery.DiscoverPaths(paths)
	if err != nil {
		return 1, fmt.Errorf("failed to discover files: %w", err)
	}
	logger.Debug("Checking %d file(s) with %d worker(s)", len(files), config.Parallelism)

	type outcome struct {
		result *verify.Result
		err    error
	}
	outcomes := runner.Map(ctx, config.Parallelism, files, func(_ context.Context, file *discovery.DiscoveredFile) outcome {
		sql, err := parser.ReadSource(file)
		if err != nil {
			return outcome{err: fmt.Errorf("%s: %w", file.RelativePath, err)}
		}
		return outcome{result: verify.Compare(file.RelativePath, sql)}
	})

	exitCode := 0
	var results []*verify.Result
	for _, o := range outcomes {
		if o.err != nil {
			logger.Error("%v", o.err)
			exitCode = 1
			continue
		}
		if err := o.result.Err(); err != nil {
			logger.Debug("%v", err)
			exitCode = 1
		}
		results = append(results, o.result)
	}

	err = writeReport(config, func(f report.Formatter, w io.Writer) error {
		return f.FormatCheck(results, w)
	})
	if err != nil {
		return 1, err
	}
	return exitCode, nil
}

// Exec runs every statement of every file against PostgreSQL
func Exec(ctx context.Context, config *Config, paths []string) (int, error) {
	logger.SetVerbose(config.Verbose)

	files, err := discovery.DiscoverPaths(paths)
	if err != nil {
		return 1, fmt.Errorf("failed to discover files: %w", err)
	}

	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	scs, err := pool.ResolveDialect(ctx)
	if err != nil {
		return 1, err
	}
	logger.Debug("Connected to PostgreSQL %d, standard_conforming_strings=%v", pool.ServerVersion(), scs)

	executor := runner.NewExecutor(pool, scs)
	runs := runner.NewWorkerPool(executor, config.Parallelism).ExecuteParallel(ctx, files)
	summary := runner.SummarizeRuns(runs)

	err = writeReport(config, func(f report.Formatter, w io.Writer) error {
		return f.FormatRuns(runs, summary, w)
	})
	if err != nil {
		return 1, err
	}
	return summary.ExitCode(), nil
}

// Watch re-scans path on every change until ctx is done
func Watch(ctx context.Context, config *Config, path string) error {
	logger.SetVerbose(config.Verbose)

	if path == "" || path == discovery.StdinPath {
		return &types.ConfigError{Field: "path", Message: "watch needs a file"}
	}

	scs, err := resolveDialect(ctx, config)
	if err != nil {
		return err
	}
	return watch.New(path, scs).Run(ctx)
}

// resolveDialect applies the configured standard_conforming_strings value.
// In auto mode the server is asked when a connection string is configured;
// otherwise the PostgreSQL default, on, is used.
func resolveDialect(ctx context.Context, config *Config) (bool, error) {
	if scs, known := config.Dialect(); known {
		return scs, nil
	}
	if config.ConnectionString == "" {
		return true, nil
	}

	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return false, fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()
	return pool.StandardConformingStrings(ctx)
}
