package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one versioned schema change loaded from migrations/.
type Migration struct {
	Version string
	Up      string
	Down    string
}

// Conn is what the migrator needs from a pool.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Migrator struct {
	conn       Conn
	migrations []Migration
	log        logrus.FieldLogger
}

func NewMigrator(conn Conn, log logrus.FieldLogger) (*Migrator, error) {
	migrations, err := LoadMigrations(migrationFiles)
	if err != nil {
		return nil, err
	}
	return &Migrator{conn: conn, migrations: migrations, log: log}, nil
}

// LoadMigrations pairs NNNN_name.up.sql / NNNN_name.down.sql files, sorted by version.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	byVersion := map[string]*Migration{}
	for _, path := range entries {
		name := strings.TrimPrefix(path, "migrations/")
		var version, direction string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			version, direction = strings.TrimSuffix(name, ".up.sql"), "up"
		case strings.HasSuffix(name, ".down.sql"):
			version, direction = strings.TrimSuffix(name, ".down.sql"), "down"
		default:
			return nil, fmt.Errorf("migration %s must end in .up.sql or .down.sql", name)
		}

		body, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version}
			byVersion[version] = m
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %s has no up script", m.Version)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	if _, err := m.conn.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	rows, err := m.conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	done := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		done[v] = true
	}
	return done, rows.Err()
}

// Up applies every pending migration, each in its own transaction, and
// returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.migrations {
		if done[mig.Version] {
			continue
		}
		if err := m.run(ctx, mig.Up, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
			return count, fmt.Errorf("migration %s failed: %w", mig.Version, err)
		}
		m.log.WithField("version", mig.Version).Info("Applied migration")
		count++
	}
	return count, nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return "", err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if !done[mig.Version] {
			continue
		}
		if mig.Down == "" {
			return "", fmt.Errorf("migration %s is irreversible", mig.Version)
		}
		if err := m.run(ctx, mig.Down, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version); err != nil {
			return "", fmt.Errorf("revert of %s failed: %w", mig.Version, err)
		}
		m.log.WithField("version", mig.Version).Info("Reverted migration")
		return mig.Version, nil
	}
	return "", nil
}

func (m *Migrator) run(ctx context.Context, script, record, version string) error {
	tx, err := m.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, script); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, record, version); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
