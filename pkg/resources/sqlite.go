package resources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// SQLiteResource is a durable, queryable Source backed by modernc.org/sqlite
// (the same driver the teacher's pkg/util/podds/persistable.go used for its
// Persistable store). Unlike MemoryResource it survives process restarts
// and can hold many uris in one table; WaitForChange has no native
// notification to lean on, so it polls a per-row version counter, bumped
// by Set, until it moves past the baseline observed at wait start.
type SQLiteResource struct {
	db           *sql.DB
	pollInterval time.Duration

	mu sync.Mutex
}

// OpenSQLiteResource opens (or creates) the backing database at path and
// ensures its table exists.
func OpenSQLiteResource(path string) (*SQLiteResource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite resource: opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite resource: pinging %s: %w", path, err)
	}
	r := &SQLiteResource{db: db, pollInterval: 250 * time.Millisecond}
	if err := r.createTable(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLiteResource) createTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS resource_contents (
			uri      TEXT PRIMARY KEY,
			mime_type TEXT,
			body     TEXT NOT NULL,
			version  INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("sqlite resource: creating table: %w", err)
	}
	return nil
}

func (s *SQLiteResource) Close() error { return s.db.Close() }

func (s *SQLiteResource) Read(ctx context.Context, _ handler.State, uri string) ([]protocol.ResourceContents, error) {
	var body, mimeType string
	err := s.db.QueryRowContext(ctx, `SELECT body, mime_type FROM resource_contents WHERE uri = ?`, uri).
		Scan(&body, &mimeType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, protocol.NewError(protocol.ErrNotFound, "resource '%s' has no stored content", uri)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite resource: reading %s: %w", uri, err)
	}
	return []protocol.ResourceContents{{URI: uri, MimeType: mimeType, Text: body}}, nil
}

// WaitForChange polls the row's version counter until it advances past the
// value observed when the wait began.
func (s *SQLiteResource) WaitForChange(ctx context.Context, _ handler.State, uri string) error {
	baseline, err := s.version(ctx, uri)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			v, err := s.version(ctx, uri)
			if err != nil {
				return err
			}
			if v != baseline {
				return nil
			}
		}
	}
}

func (s *SQLiteResource) version(ctx context.Context, uri string) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM resource_contents WHERE uri = ?`, uri).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite resource: reading version of %s: %w", uri, err)
	}
	return v, nil
}

// Set upserts uri's content, bumping its version counter so that any
// blocked WaitForChange call wakes.
func (s *SQLiteResource) Set(ctx context.Context, uri, mimeType, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resource_contents (uri, mime_type, body, version) VALUES (?, ?, ?, 1)
		ON CONFLICT(uri) DO UPDATE SET
			mime_type = excluded.mime_type,
			body      = excluded.body,
			version   = resource_contents.version + 1
	`, uri, mimeType, body)
	if err != nil {
		return fmt.Errorf("sqlite resource: writing %s: %w", uri, err)
	}
	return nil
}
