// Command migrate applies the SQL files under migrations/ in filename order.
// Applied versions are recorded in schema_migrations with a checksum, so a
// file that changes after being applied aborts the run instead of silently
// diverging. An advisory lock keeps concurrent deployments from racing.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tradebooks/internal/logger"
)

const migrationLockKey = 49220173

func main() {
	_ = godotenv.Load()
	if err := logger.Setup(logger.FromEnv()); err != nil {
		fmt.Fprintln(os.Stderr, "logger setup failed:", err)
		os.Exit(1)
	}

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool := connect(ctx, url)
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to acquire connection")
	}
	defer conn.Release()

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockKey).Scan(&locked); err != nil {
		log.Fatal().Err(err).Msg("advisory lock query failed")
	}
	if !locked {
		log.Fatal().Msg("another migrator is currently running")
	}

	ensureVersionTable(ctx, pool)

	for _, filename := range discover() {
		apply(ctx, pool, filename)
	}

	log.Info().Msg("all migrations processed")
}

func connect(ctx context.Context, url string) *pgxpool.Pool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pool")
	}
	if err := pool.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	return pool
}

func ensureVersionTable(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create schema_migrations table")
	}
}

// discover lists migrations/*.sql sorted by filename and rejects duplicate
// version prefixes.
func discover() []string {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations directory")
	}

	seen := make(map[string]bool)
	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version := versionOf(entry.Name())
		if seen[version] {
			log.Fatal().Str("version", version).Msg("duplicate migration version")
		}
		seen[version] = true
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)
	return filenames
}

func versionOf(filename string) string {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		log.Fatal().Str("file", filename).Msg("migration filename must be NNN_description.sql")
	}
	return parts[0]
}

func apply(ctx context.Context, pool *pgxpool.Pool, filename string) {
	path := filepath.Join("migrations", filename)
	sqlBytes, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", filename).Msg("failed to read migration")
	}
	sum := sha256.Sum256(sqlBytes)
	checksum := hex.EncodeToString(sum[:])
	version := versionOf(filename)

	var applied string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&applied)
	switch {
	case err == nil:
		if applied != checksum {
			log.Fatal().Str("file", filename).Msg("checksum mismatch with applied migration")
		}
		log.Info().Str("file", filename).Msg("skip")
		return
	case errors.Is(err, pgx.ErrNoRows):
		// not yet applied
	default:
		log.Fatal().Err(err).Str("file", filename).Msg("failed to query schema_migrations")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("file", filename).Msg("failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		log.Fatal().Err(err).Str("file", filename).Msg("migration failed")
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)",
		version, filename, checksum); err != nil {
		log.Fatal().Err(err).Str("file", filename).Msg("failed to record migration")
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatal().Err(err).Str("file", filename).Msg("failed to commit migration")
	}
	log.Info().Str("file", filename).Msg("applied")
}
