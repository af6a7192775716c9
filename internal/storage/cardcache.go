package storage

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// CardCache stores raw card payloads keyed by a content hash of the
// lowercased card name, so lookups are case-insensitive.
type CardCache struct {
	db  *DB
	ttl time.Duration
}

// NewCardCache creates a card cache over the given database. A zero ttl
// disables expiry.
func NewCardCache(db *DB, ttl time.Duration) *CardCache {
	return &CardCache{db: db, ttl: ttl}
}

// cacheKey hashes the lowercased card name.
func cacheKey(name string) string {
	sum := md5.Sum([]byte(strings.ToLower(name)))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached payload for a card name. The second return value
// is false on a miss or when the cached row has expired.
func (c *CardCache) Get(ctx context.Context, name string) ([]byte, bool, error) {
	query := `SELECT payload, fetched_at FROM card_cache WHERE name_hash = ?`

	var payload string
	var fetchedAt time.Time
	err := c.db.Conn().QueryRowContext(ctx, query, cacheKey(name)).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read card cache: %w", err)
	}

	if c.ttl > 0 && time.Since(fetchedAt) > c.ttl {
		return nil, false, nil
	}

	return []byte(payload), true, nil
}

// Put saves or refreshes the cached payload for a card name.
func (c *CardCache) Put(ctx context.Context, name string, payload []byte) error {
	query := `
		INSERT INTO card_cache (name_hash, name, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name_hash) DO UPDATE SET
			name = excluded.name,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`

	_, err := c.db.Conn().ExecContext(ctx, query, cacheKey(name), name, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write card cache: %w", err)
	}

	return nil
}

// Clear removes every cached card.
func (c *CardCache) Clear(ctx context.Context) error {
	if _, err := c.db.Conn().ExecContext(ctx, `DELETE FROM card_cache`); err != nil {
		return fmt.Errorf("failed to clear card cache: %w", err)
	}
	return nil
}

// Count returns the number of cached cards.
func (c *CardCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM card_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count card cache: %w", err)
	}
	return n, nil
}
