// Package watch re-scans a SQL file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cybertec-postgresql/pgsplit/internal/discovery"
	"github.com/cybertec-postgresql/pgsplit/internal/errors"
	"github.com/cybertec-postgresql/pgsplit/internal/logger"
	"github.com/cybertec-postgresql/pgsplit/internal/parser"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor produces on save
const DefaultDebounce = 50 * time.Millisecond

// Status is the result of scanning the file once
type Status struct {
	File         string
	Statements   int
	Unterminated *errors.ParseError
	Err          error // the file could not be read
}

// Complete reports whether the file was read and every construct was closed
func (s Status) Complete() bool {
	return s.Err == nil && s.Unterminated == nil
}

func (s Status) String() string {
	switch {
	case s.Err != nil:
		return fmt.Sprintf("%s: %v", s.File, s.Err)
	case s.Unterminated != nil:
		return s.Unterminated.Error()
	default:
		return fmt.Sprintf("%s: %d statements", s.File, s.Statements)
	}
}

// Inspect scans the file once
func Inspect(file *discovery.DiscoveredFile, standardConformingStrings bool) Status {
	st := Status{File: file.RelativePath}
	parsed, err := parser.Parse(file, standardConformingStrings)
	if err != nil {
		st.Err = err
		return st
	}
	st.Statements = len(parsed.Statements)
	st.Unterminated = parsed.Unterminated
	return st
}

// Watcher reports the status of one file after every change
type Watcher struct {
	file                      discovery.DiscoveredFile
	standardConformingStrings bool
	debounce                  time.Duration
	onChange                  func(Status)
	log                       *logger.Logger
}

// New creates a watcher for path that logs each status
func New(path string, standardConformingStrings bool) *Watcher {
	w := &Watcher{
		file: discovery.DiscoveredFile{
			Path:         filepath.Clean(path),
			RelativePath: path,
		},
		standardConformingStrings: standardConformingStrings,
		debounce:                  DefaultDebounce,
		log:                       logger.Default().With("file", path),
	}
	w.onChange = w.logStatus
	return w
}

// OnChange replaces the status callback
func (w *Watcher) OnChange(fn func(Status)) {
	w.onChange = fn
}

// SetDebounce sets how long to wait for further events before re-scanning
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run reports the current status, then watches the file's directory until
// ctx is done. The directory is watched so that editors replacing the file
// by rename are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.file.Path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.Debug("watching directory %s", dir)

	w.onChange(Inspect(&w.file, w.standardConformingStrings))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watch stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.file.Path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error: %v", err)
		case <-timer.C:
			w.onChange(Inspect(&w.file, w.standardConformingStrings))
		}
	}
}

func (w *Watcher) logStatus(st Status) {
	switch {
	case st.Err != nil:
		w.log.Warn("%s", st)
	case st.Unterminated != nil:
		w.log.Warn("%s", st)
	default:
		w.log.Info("%s", st)
	}
}
