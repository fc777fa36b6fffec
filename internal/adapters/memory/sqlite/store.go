// Package sqlite provides a SQLite-backed memory store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/coremind/internal/domain"
	"github.com/bnema/coremind/internal/ports"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	memoryDirMode = 0o700

	schema = `CREATE TABLE IF NOT EXISTS memory_events (
	  key TEXT PRIMARY KEY,
	  payload TEXT NOT NULL
	)`
)

// Store persists memory events in SQLite. Every insert is committed before
// StoreEvent returns.
type Store struct {
	sqlDB  *sql.DB
	path   string
	clock  ports.Clock
	logger *zap.Logger

	mu      sync.Mutex
	lastKey domain.EventKey
}

var _ ports.MemoryStore = (*Store)(nil)

type Option func(*Store)

func WithClock(clock ports.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens the database at path, creating it when missing. A file that is
// not a usable database is moved aside and replaced by an empty one.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	s := &Store{
		path:   filepath.Clean(path),
		clock:  ports.SystemClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("memory").With(zap.String("path", s.path))

	if err := os.MkdirAll(filepath.Dir(s.path), memoryDirMode); err != nil {
		return nil, fmt.Errorf("create memory directory: %w", err)
	}

	sqlDB, err := s.open()
	if err != nil {
		if !isCorrupt(err) {
			return nil, err
		}
		if quarantineErr := s.quarantine(err); quarantineErr != nil {
			return nil, quarantineErr
		}
		sqlDB, err = s.open()
		if err != nil {
			return nil, err
		}
	}
	s.sqlDB = sqlDB

	var last sql.NullString
	if err := s.sqlDB.QueryRow(`SELECT MAX(key) FROM memory_events`).Scan(&last); err != nil {
		_ = s.sqlDB.Close()
		return nil, fmt.Errorf("read latest memory key: %w", err)
	}
	s.lastKey = domain.EventKey(last.String)

	return s, nil
}

func (s *Store) open() (*sql.DB, error) {
	dsn := "file:" + s.path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create memory schema: %w", err)
	}

	return sqlDB, nil
}

func (s *Store) quarantine(cause error) error {
	aside := fmt.Sprintf("%s.corrupt-%d", s.path, s.clock.Now().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		return fmt.Errorf("move unreadable memory aside: %w", errors.Join(cause, err))
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(s.path + suffix)
	}

	s.logger.Warn("memory unreadable, moved aside and starting empty", zap.Error(cause), zap.String("moved_to", aside))
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) StoreEvent(ctx context.Context, payload domain.Payload) (domain.EventKey, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if payload == nil {
		payload = domain.Payload{}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode event payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NextEventKey(s.clock.Now(), s.lastKey)
	_, err = s.sqlDB.ExecContext(ctx, `INSERT INTO memory_events (key, payload) VALUES (?, ?)`, string(key), string(encoded))
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrEventKeyCollision, key)
		}
		return "", fmt.Errorf("insert memory event: %w", err)
	}
	s.lastKey = key

	s.logger.Debug("event stored", zap.String("key", string(key)))
	return key, nil
}

func (s *Store) LoadAll(ctx context.Context) (map[domain.EventKey]domain.Payload, error) {
	events, err := s.query(ctx, `SELECT key, payload FROM memory_events ORDER BY key`)
	if err != nil {
		return nil, err
	}

	all := make(map[domain.EventKey]domain.Payload, len(events))
	for _, event := range events {
		all[event.Key] = event.Payload
	}

	return all, nil
}

func (s *Store) Recent(ctx context.Context, n int) ([]domain.Payload, error) {
	if n <= 0 {
		return []domain.Payload{}, nil
	}

	events, err := s.query(ctx, `SELECT key, payload FROM (
	   SELECT key, payload FROM memory_events ORDER BY key DESC LIMIT ?
	 ) ORDER BY key`, n)
	if err != nil {
		return nil, err
	}

	recent := make([]domain.Payload, 0, len(events))
	for _, event := range events {
		recent = append(recent, event.Payload)
	}

	return recent, nil
}

func (s *Store) Get(ctx context.Context, key domain.EventKey) (domain.Payload, error) {
	events, err := s.query(ctx, `SELECT key, payload FROM memory_events WHERE key = ?`, string(key))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.ErrEventNotFound
	}

	return events[0].Payload, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.MemoryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query memory events: %w", err)
	}
	defer rows.Close()

	var events []domain.MemoryEvent
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan memory event: %w", err)
		}

		var payload domain.Payload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			s.logger.Warn("skipping unreadable memory event", zap.String("key", key), zap.Error(err))
			continue
		}
		if payload == nil {
			payload = domain.Payload{}
		}
		events = append(events, domain.MemoryEvent{Key: domain.EventKey(key), Payload: payload})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memory events: %w", err)
	}

	return events, nil
}

func isCorrupt(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_NOTADB, sqlite3lib.SQLITE_CORRUPT:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "file is not a database") ||
		strings.Contains(message, "database disk image is malformed")
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
