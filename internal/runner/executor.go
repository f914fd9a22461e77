package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/cybertec-postgresql/pgsplit/internal/database"
	"github.com/cybertec-postgresql/pgsplit/internal/discovery"
	"github.com/cybertec-postgresql/pgsplit/internal/errors"
	"github.com/cybertec-postgresql/pgsplit/internal/logger"
	"github.com/cybertec-postgresql/pgsplit/internal/parser"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor runs the statements of SQL files one at a time
type Executor struct {
	pool                      *database.Pool
	standardConformingStrings bool
	timeout                   time.Duration
	singleTransaction         bool
	tempDatabase              bool
	log                       *logger.Logger
}

// NewExecutor creates an executor that splits files with the given
// standard_conforming_strings setting and applies the same setting to every
// session it runs statements in. Timeout and transaction handling come from
// the pool's configuration.
func NewExecutor(pool *database.Pool, standardConformingStrings bool) *Executor {
	config := pool.Config()
	return &Executor{
		pool:                      pool,
		standardConformingStrings: standardConformingStrings,
		timeout:                   config.Timeout,
		singleTransaction:         config.SingleTransaction,
		tempDatabase:              config.TempDatabase,
		log:                       logger.Default(),
	}
}

// execer is satisfied by both a pooled connection and a transaction
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Execute runs a single file. Failures are recorded in the returned run.
func (e *Executor) Execute(ctx context.Context, file *discovery.DiscoveredFile) *FileRun {
	run := &FileRun{
		File:      file,
		StartTime: time.Now(),
		Status:    RunPending,
	}

	err := e.executeFile(ctx, run)
	run.EndTime = time.Now()

	switch {
	case err == nil:
		run.Status = RunPassed
		e.log.Debug("%s: %d statements in %s", file.RelativePath, run.Executed, run.Duration())
	case stderrors.Is(err, context.DeadlineExceeded):
		run.Status = RunTimeout
		run.Error = err
		e.log.Debug("%s: timed out: %v", file.RelativePath, err)
	default:
		run.Status = RunFailed
		run.Error = err
		e.log.Debug("%s: failed: %v", file.RelativePath, err)
	}

	return run
}

// ExecuteBatch runs multiple files sequentially
func (e *Executor) ExecuteBatch(ctx context.Context, files []discovery.DiscoveredFile) []*FileRun {
	var runs []*FileRun

	for i := range files {
		e.log.Debug("Running %s", files[i].RelativePath)
		runs = append(runs, e.Execute(ctx, &files[i]))

		if ctx.Err() != nil {
			break
		}
	}

	return runs
}

func (e *Executor) executeFile(ctx context.Context, run *FileRun) error {
	parsed, err := parser.Parse(run.File, e.standardConformingStrings)
	if err != nil {
		return err
	}
	run.Statements = len(parsed.Statements)
	if !parsed.Complete() {
		// nothing runs from a file that would not split the same way on the server
		return parsed.Unterminated
	}
	if run.Statements == 0 {
		return nil
	}

	target := e.pool.Pool
	if e.tempDatabase {
		tempPool, err := database.CreateTempDatabase(ctx, e.pool)
		if err != nil {
			return err
		}
		run.Database = tempPool.Config().ConnConfig.Database
		e.log.Debug("%s: created database %s", run.File.RelativePath, run.Database)

		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.DestroyTempDatabase(cleanupCtx, e.pool, tempPool); err != nil {
				e.log.Warn("failed to drop database %s: %v", run.Database, err)
			}
		}()
		target = tempPool
	}

	return e.executeStatements(ctx, target, run, parsed.Statements)
}

func (e *Executor) executeStatements(ctx context.Context, target *pgxpool.Pool, run *FileRun, statements []*parser.Statement) error {
	conn, err := target.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	setting := "off"
	if e.standardConformingStrings {
		setting = "on"
	}
	if _, err := conn.Exec(ctx, "SET standard_conforming_strings = "+setting); err != nil {
		return fmt.Errorf("failed to set standard_conforming_strings: %w", err)
	}

	var ex execer = conn
	var tx pgx.Tx
	if e.singleTransaction {
		tx, err = conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(context.Background()) }()
		ex = tx
	}

	run.Status = RunRunning
	for _, stmt := range statements {
		if err := e.executeStatement(ctx, ex, stmt); err != nil {
			return errors.NewStatementError(run.File.RelativePath, stmt.Index, stmt.StartLine, stmt.RawSQL, err)
		}
		run.Executed++
	}

	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}
	return nil
}

func (e *Executor) executeStatement(ctx context.Context, ex execer, stmt *parser.Statement) error {
	stmtCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		stmtCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	tag, err := ex.Exec(stmtCtx, stmt.RawSQL, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		if stderrors.Is(stmtCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("timed out after %s: %w", e.timeout, context.DeadlineExceeded)
		}
		return err
	}
	e.log.Debug("statement %d (line %d): %s", stmt.Index, stmt.StartLine, tag.String())
	return nil
}
