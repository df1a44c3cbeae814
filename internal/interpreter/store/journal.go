package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/themifi/relox/foundation/core/error"
)

const (
	// DefaultRecentLimit applies when Recent is called with limit <= 0
	DefaultRecentLimit = 20

	// MaxRecentLimit caps a single Recent call
	MaxRecentLimit = 1000
)

// Entry is one journaled evaluation
type Entry struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Output     string    `json:"output"`
	DurationMS float64   `json:"duration_ms"`
	RequestID  string    `json:"request_id,omitempty"`
}

// Journal persists evaluations
type Journal interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]*Entry, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteJournal implements Journal using SQLite
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Config holds configuration for the SQLite journal
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/journal.db",
	}
}

// Open creates or opens the journal database
func Open(cfg Config) (*SQLiteJournal, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("journal path is empty").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("store.Open")
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, dbError(err, "failed to create directory", "store.Open")
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.Open")
	}
	// a single connection keeps :memory: databases shared between calls
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "store.Open")
	}
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		source TEXT NOT NULL,
		status TEXT NOT NULL,
		output TEXT NOT NULL,
		duration_ms REAL NOT NULL,
		request_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_evaluations_status ON evaluations(status);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Record stores an entry, assigning ID and CreatedAt when unset
func (j *SQLiteJournal) Record(ctx context.Context, entry *Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	fillDefaults(entry)

	var requestID sql.NullString
	if entry.RequestID != "" {
		requestID = sql.NullString{String: entry.RequestID, Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, created_at, source, status, output, duration_ms, request_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.CreatedAt, entry.Source, entry.Status, entry.Output, entry.DurationMS, requestID)
	if err != nil {
		return dbError(err, "failed to insert evaluation", "store.Record")
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, created_at, source, status, output, duration_ms, request_id
		FROM evaluations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, clampLimit(limit))
	if err != nil {
		return nil, dbError(err, "failed to query evaluations", "store.Recent")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var entry Entry
		var requestID sql.NullString
		if err := rows.Scan(&entry.ID, &entry.CreatedAt, &entry.Source, &entry.Status,
			&entry.Output, &entry.DurationMS, &requestID); err != nil {
			return nil, dbError(err, "failed to scan evaluation", "store.Recent")
		}
		entry.RequestID = requestID.String
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read evaluations", "store.Recent")
	}
	return entries, nil
}

// CountByStatus returns the number of entries per status
func (j *SQLiteJournal) CountByStatus(ctx context.Context) (map[string]int64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM evaluations GROUP BY status`)
	if err != nil {
		return nil, dbError(err, "failed to count evaluations", "store.CountByStatus")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, dbError(err, "failed to scan count", "store.CountByStatus")
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Prune removes entries older than the specified duration
func (j *SQLiteJournal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := j.db.ExecContext(ctx, `DELETE FROM evaluations WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune evaluations", "store.Prune")
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// Ping checks that the database is reachable
func (j *SQLiteJournal) Ping(ctx context.Context) error {
	if err := j.db.PingContext(ctx); err != nil {
		return dbError(err, "journal unreachable", "store.Ping")
	}
	return nil
}

// Close closes the database connection
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// MemoryJournal is an in-memory implementation for tests and for runs
// without a journal path
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryJournal creates an empty in-memory journal
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{entries: make([]*Entry, 0)}
}

// Record stores a copy of entry
func (m *MemoryJournal) Record(ctx context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fillDefaults(entry)
	stored := *entry
	m.entries = append(m.entries, &stored)
	return nil
}

// Recent returns up to limit entries, newest first
func (m *MemoryJournal) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := make([]*Entry, len(m.entries))
	for i := range m.entries {
		// reverse insertion order so equal timestamps list the latest first
		e := *m.entries[len(m.entries)-1-i]
		sorted[i] = &e
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})

	if n := clampLimit(limit); len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// CountByStatus returns the number of entries per status
func (m *MemoryJournal) CountByStatus(ctx context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range m.entries {
		counts[e.Status]++
	}
	return counts, nil
}

// Prune removes entries older than the specified duration
func (m *MemoryJournal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	kept := m.entries[:0]
	var deleted int64
	for _, e := range m.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return deleted, nil
}

// Ping always succeeds
func (m *MemoryJournal) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (m *MemoryJournal) Close() error {
	return nil
}

func fillDefaults(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}

func dbError(err error, message, operation string) error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(operation)
}
