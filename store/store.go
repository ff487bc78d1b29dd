// Package store persists named document snapshots in SQLite.
//
// Each snapshot keeps the raw JSON form of a document and its BLAKE3
// digest; saving a document whose digest is unchanged does not write.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/internal/logging"
)

// ErrNotFound is returned for unknown snapshot names.
var ErrNotFound = errors.New("not found")

// NotFoundError names the snapshot that was not found.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snapshot %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	name       TEXT PRIMARY KEY,
	digest     TEXT NOT NULL,
	body       BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// Config configures a Store.
type Config struct {
	// Path is the database file, or ":memory:".
	Path string
	// Logger receives debug records for skipped and written snapshots. Nil
	// discards them.
	Logger *slog.Logger
	// Now stamps updated_at. Nil means time.Now.
	Now func() time.Time
}

type Store struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// Snapshot is one stored row.
type Snapshot struct {
	Name      string
	Digest    string
	Body      []byte
	UpdatedAt time.Time
}

// Open opens the database at cfg.Path and creates the schema if needed.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &Store{db: db, log: logging.OrDiscard(cfg.Logger), now: cfg.Now}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Digest returns the hex BLAKE3 digest of body.
func Digest(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Save stores doc under name and reports whether anything was written.
func (s *Store) Save(ctx context.Context, name string, doc *document.Document) (bool, error) {
	body, err := document.MarshalJSON(doc)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", name, err)
	}
	digest := Digest(body)

	var prev string
	err = s.db.QueryRowContext(ctx, `SELECT digest FROM snapshots WHERE name = ?`, name).Scan(&prev)
	switch {
	case err == nil && prev == digest:
		s.log.Debug("snapshot unchanged", "name", name, "digest", digest)
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("read digest of %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots (name, digest, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET digest = excluded.digest, body = excluded.body, updated_at = excluded.updated_at`,
		name, digest, body, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("write %s: %w", name, err)
	}
	s.log.Debug("snapshot saved", "name", name, "digest", digest, "bytes", len(body))
	return true, nil
}

// Get returns the stored row for name.
func (s *Store) Get(ctx context.Context, name string) (Snapshot, error) {
	snap := Snapshot{Name: name}
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT digest, body, updated_at FROM snapshots WHERE name = ?`, name,
	).Scan(&snap.Digest, &snap.Body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, &NotFoundError{Name: name}
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", name, err)
	}
	if snap.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Snapshot{}, fmt.Errorf("read %s: updated_at: %w", name, err)
	}
	return snap, nil
}

// Load decodes the document stored under name.
func (s *Store) Load(ctx context.Context, name string) (*document.Document, error) {
	snap, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	doc, err := document.DecodeJSON(bytes.NewReader(snap.Body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return doc, nil
}

// List returns the stored snapshots without their bodies, by name.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, digest, updated_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var updated string
		if err := rows.Scan(&snap.Name, &snap.Digest, &updated); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		if snap.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("list snapshots: %s: %w", snap.Name, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Name: name}
	}
	return nil
}
