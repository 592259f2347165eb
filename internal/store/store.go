package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// Store caches model responses in SQLite, keyed by model and prompt.
type Store struct {
	db *sql.DB
}

// Stats summarises cache usage.
type Stats struct {
	Entries int
	Hits    int
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS model_responses (
		key TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		response TEXT NOT NULL,
		hit_count INTEGER DEFAULT 0,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_responses_model ON model_responses(model);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached response for prompt, if any.
func (s *Store) Get(ctx context.Context, model, prompt string) (string, bool, error) {
	key := cacheKey(model, prompt)

	var response string
	err := s.db.QueryRowContext(ctx,
		`SELECT response FROM model_responses WHERE key = ?`, key).Scan(&response)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE model_responses SET hit_count = hit_count + 1, last_used = ? WHERE key = ?`,
		time.Now(), key)
	return response, true, err
}

// Put stores response for prompt, replacing an earlier entry.
func (s *Store) Put(ctx context.Context, model, prompt, response string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO model_responses (key, model, response, hit_count, last_used, created_at) VALUES (?, ?, ?, 0, ?, ?)`,
		cacheKey(model, prompt), model, response, time.Now(), time.Now())
	return err
}

// Clear removes every cached response and returns how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM model_responses`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM model_responses`).Scan(&stats.Entries, &stats.Hits)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// cacheKey hashes the model with the trimmed, NFC-normalized prompt so that
// visually identical prompts share an entry.
func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + norm.NFC.String(strings.TrimSpace(prompt))))
	return hex.EncodeToString(sum[:])
}
