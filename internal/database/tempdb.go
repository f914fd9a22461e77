package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TempDatabasePrefix starts the name of every scratch database
const TempDatabasePrefix = "pgsplit_exec_"

// CreateTempDatabase creates a scratch database and returns a pool connected
// to it. The database name is available via pool.Config().ConnConfig.Database.
func CreateTempDatabase(ctx context.Context, adminPool *Pool) (*pgxpool.Pool, error) {
	timestamp := time.Now().Format("20060102_150405")
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random suffix: %w", err)
	}
	dbName := TempDatabasePrefix + timestamp + "_" + hex.EncodeToString(randomBytes)

	_, err := adminPool.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary database: %w", err)
	}

	// Keep every connection option of the admin pool (sslmode, etc.)
	config := adminPool.Pool.Config()
	config.ConnConfig.Database = dbName
	config.MaxConns = 1

	tempPool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		_, _ = adminPool.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize())
		return nil, fmt.Errorf("failed to connect to temp database: %w", err)
	}

	return tempPool, nil
}

// DestroyTempDatabase closes the temp pool and drops its database
func DestroyTempDatabase(ctx context.Context, adminPool *Pool, tempPool *pgxpool.Pool) error {
	if tempPool == nil {
		return nil
	}
	dbName := tempPool.Config().ConnConfig.Database
	tempPool.Close()
	stmt := "DROP DATABASE IF EXISTS " + pgx.Identifier{dbName}.Sanitize()
	// WITH (FORCE) exists since PostgreSQL 13
	if adminPool.ServerVersion() >= 130000 {
		stmt += " WITH (FORCE)"
	}
	_, err := adminPool.Exec(ctx, stmt)
	return err
}
