// Package advisory checks project dependency manifests against a local
// vulnerability database and reports affected packages as findings.
package advisory

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"treelint/internal/errors"
)

// Advisory is one known vulnerability: any version of Package below
// FixedIn is affected.
type Advisory struct {
	ID        string
	Ecosystem string
	Package   string
	FixedIn   string
	Severity  string
	Summary   string
}

// Store is a SQLite-backed advisory database.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open opens or creates the advisory database at path. Pass ":memory:" for
// an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.New(errors.AdvisoryUnavailable, "cannot open advisory database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.New(errors.AdvisoryUnavailable, "cannot configure advisory database", err)
		}
	}

	s := &Store{conn: conn, logger: logger}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS advisories (
	id        TEXT NOT NULL,
	ecosystem TEXT NOT NULL,
	package   TEXT NOT NULL,
	fixed_in  TEXT NOT NULL,
	severity  TEXT NOT NULL,
	summary   TEXT NOT NULL,
	PRIMARY KEY (id, ecosystem, package)
);
CREATE INDEX IF NOT EXISTS idx_advisories_pkg ON advisories(ecosystem, package);
`
	if _, err := s.conn.Exec(schema); err != nil {
		return errors.New(errors.AdvisoryUnavailable, "cannot initialize advisory schema", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Put inserts or replaces advisories.
func (s *Store) Put(ctx context.Context, advisories ...Advisory) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.New(errors.AdvisoryUnavailable, "cannot begin advisory transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO advisories (id, ecosystem, package, fixed_in, severity, summary)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.New(errors.AdvisoryUnavailable, "cannot prepare advisory insert", err)
	}
	defer stmt.Close()

	for _, a := range advisories {
		if _, err := stmt.ExecContext(ctx, a.ID, a.Ecosystem, a.Package, a.FixedIn, a.Severity, a.Summary); err != nil {
			return errors.New(errors.AdvisoryUnavailable,
				fmt.Sprintf("cannot store advisory %s", a.ID), err)
		}
	}
	return tx.Commit()
}

// Lookup returns all advisories for a package in an ecosystem.
func (s *Store) Lookup(ctx context.Context, ecosystem, pkg string) ([]Advisory, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, ecosystem, package, fixed_in, severity, summary
		 FROM advisories WHERE ecosystem = ? AND package = ? ORDER BY id`,
		ecosystem, pkg)
	if err != nil {
		return nil, errors.New(errors.AdvisoryUnavailable, "advisory lookup failed", err)
	}
	defer rows.Close()

	var out []Advisory
	for rows.Next() {
		var a Advisory
		if err := rows.Scan(&a.ID, &a.Ecosystem, &a.Package, &a.FixedIn, &a.Severity, &a.Summary); err != nil {
			return nil, errors.New(errors.AdvisoryUnavailable, "advisory scan failed", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count reports how many advisories the store holds.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM advisories`).Scan(&n)
	if err != nil {
		return 0, errors.New(errors.AdvisoryUnavailable, "advisory count failed", err)
	}
	return n, nil
}
