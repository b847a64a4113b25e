package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/plantque/plantque/internal/models"
)

var _ Store = &SQLite{}

// SQLite keeps the cache in a sqlite table. The default path is
// ":memory:", which lives exactly as long as the process; operators who
// accept on-disk persistence can point it at a file instead.
type SQLite struct {
	conn *sql.DB
	ttl  time.Duration
	now  func() time.Time
}

func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if path == "" {
		path = ":memory:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A :memory: database exists per connection; the pool must stay at
	// one connection or lookups would see different databases.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLite{conn: conn, ttl: ttl, now: time.Now}

	if err := s.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

func (s *SQLite) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS scan_results (
		fingerprint TEXT PRIMARY KEY,
		result TEXT NOT NULL,
		stored_at INTEGER NOT NULL
	);
	`

	_, err := s.conn.Exec(query)
	return err
}

func (s *SQLite) Get(ctx context.Context, key string) (*models.Result, bool, error) {
	var data string
	var storedAt int64

	row := s.conn.QueryRowContext(ctx, "SELECT result, stored_at FROM scan_results WHERE fingerprint = ?", key)
	if err := row.Scan(&data, &storedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached result: %w", err)
	}

	if s.now().Unix()-storedAt > int64(s.ttl/time.Second) {
		// Lazy eviction: the expired row dies on its own lookup.
		if _, err := s.conn.ExecContext(ctx, "DELETE FROM scan_results WHERE fingerprint = ?", key); err != nil {
			return nil, false, fmt.Errorf("evicting expired result: %w", err)
		}
		return nil, false, nil
	}

	var result models.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false, fmt.Errorf("decoding cached result: %w", err)
	}

	return &result, true, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value *models.Result) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO scan_results (fingerprint, result, stored_at) VALUES (?, ?, ?)",
		key, string(data), s.now().Unix())
	if err != nil {
		return fmt.Errorf("storing result: %w", err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}
