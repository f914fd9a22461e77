package runner

import (
	"context"
	"sync"
	"time"

	"github.com/cybertec-postgresql/pgsplit/internal/discovery"
	"github.com/cybertec-postgresql/pgsplit/internal/logger"
)

// WorkerPool manages parallel file execution
type WorkerPool struct {
	executor   *Executor
	maxWorkers int
}

// NewWorkerPool creates a new worker pool for parallel file execution
func NewWorkerPool(executor *Executor, maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		executor:   executor,
		maxWorkers: maxWorkers,
	}
}

// ExecuteParallel runs files with the configured concurrency limit and
// returns their runs in input order
func (wp *WorkerPool) ExecuteParallel(ctx context.Context, files []discovery.DiscoveredFile) []*FileRun {
	if len(files) == 0 {
		return nil
	}

	// If only one worker or one file, fall back to sequential execution
	if wp.maxWorkers == 1 || len(files) == 1 {
		return wp.executor.ExecuteBatch(ctx, files)
	}

	logger.Debug("Starting parallel execution with %d workers for %d files", wp.maxWorkers, len(files))

	return Map(ctx, wp.maxWorkers, files, func(ctx context.Context, file *discovery.DiscoveredFile) *FileRun {
		if ctx.Err() != nil {
			now := time.Now()
			return &FileRun{
				File:      file,
				StartTime: now,
				EndTime:   now,
				Status:    RunFailed,
				Error:     ctx.Err(),
			}
		}
		run := wp.executor.Execute(ctx, file)
		logger.Debug("[%s] %s", run.Status, file.RelativePath)
		return run
	})
}

// job is a single file to process
type job struct {
	file  *discovery.DiscoveredFile
	index int
}

// Map calls fn for every file using at most workers goroutines and returns
// the results in input order
func Map[R any](ctx context.Context, workers int, files []discovery.DiscoveredFile, fn func(context.Context, *discovery.DiscoveredFile) R) []R {
	results := make([]R, len(files))
	if len(files) == 0 {
		return results
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan job, len(files))
	for i := range files {
		jobs <- job{file: &files[i], index: i}
	}
	close(jobs)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				// each index is written by exactly one worker
				results[j.index] = fn(ctx, j.file)
			}
		}()
	}
	wg.Wait()

	return results
}
