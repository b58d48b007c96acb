package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jleechanorg/memlearn/internal/models"
)

// SQLiteStore implements PatternStore using SQLite for persistence. It is the
// opt-in transactional backend; individual writes commit immediately, so Sync
// is a no-op.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// schema creates the patterns table. The full record is stored as JSON with
// the queryable columns lifted out for indexing.
const schema = `
CREATE TABLE IF NOT EXISTS patterns (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	confidence REAL NOT NULL,
	promoted INTEGER NOT NULL DEFAULT 0,
	applied_count INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_patterns_category ON patterns(category);
CREATE INDEX IF NOT EXISTS idx_patterns_confidence ON patterns(confidence);
`

// NewSQLiteStore creates a SQLiteStore backed by dir/patterns.db.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dir, "patterns.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create persists a candidate and returns its generated id.
func (s *SQLiteStore) Create(ctx context.Context, candidate models.Candidate) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	prefix := idPrefix(candidate.Category)

	var id string
	for i := 0; ; i++ {
		id = formatID(prefix, now, i)
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM patterns WHERE id = ?)`, id).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check id: %w", err)
		}
		if !exists {
			break
		}
	}

	p := materialize(id, candidate, now)
	if err := s.put(ctx, p); err != nil {
		return "", err
	}
	return id, nil
}

// put inserts or replaces a pattern row.
func (s *SQLiteStore) put(ctx context.Context, p models.Pattern) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode pattern: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO patterns (id, category, confidence, promoted, applied_count, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Category), p.Confidence, boolToInt(p.Promoted),
		p.AppliedCount, p.CreatedAt.Format(time.RFC3339Nano), string(data))
	if err != nil {
		return fmt.Errorf("failed to write pattern: %w", err)
	}
	return nil
}

// Get returns the pattern with the given id, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Pattern, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM patterns WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern: %w", err)
	}

	var p models.Pattern
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to decode pattern %s: %w", id, err)
	}
	return &p, nil
}

// Update applies mutate to the pattern with the given id.
func (s *SQLiteStore) Update(ctx context.Context, id string, mutate func(*models.Pattern)) (*models.Pattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mutate(p)
	enforceInvariants(p)
	p.LastUpdated = time.Now()

	if err := s.put(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// All returns every stored pattern in creation order.
func (s *SQLiteStore) All(ctx context.Context) ([]models.Pattern, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM patterns ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	var patterns []models.Pattern
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		var p models.Pattern
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to decode pattern: %w", err)
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// Stats returns aggregate counters over the stored patterns.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN category != ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN category = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(promoted), 0),
		       COALESCE(SUM(applied_count), 0)
		FROM patterns`,
		string(models.CategoryObservation), string(models.CategoryObservation)).
		Scan(&stats.TotalPatterns, &stats.Corrections, &stats.Observations,
			&stats.Promoted, &stats.TotalApplications)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// Sync is a no-op; SQLite writes commit immediately.
func (s *SQLiteStore) Sync(ctx context.Context) error {
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
