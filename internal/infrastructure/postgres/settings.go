package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingStore is the PostgreSQL implementation of domain.SettingStore.
// The settings table is a generic key-value store shared with the CMS;
// values are JSON-encoded strings.
type SettingStore struct {
	pool *pgxpool.Pool
}

// NewSettingStore creates a postgres SettingStore.
func NewSettingStore(pool *pgxpool.Pool) *SettingStore {
	return &SettingStore{pool: pool}
}

// Get returns the raw value for key, unwrapping the JSON string encoding
// the CMS uses, and whether the row exists.
func (s *SettingStore) Get(ctx context.Context, key string) (string, bool, error) {
	var raw string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`, key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}

	// Values are usually stored JSON-encoded (`"false"`); fall back to the
	// raw text for rows written without encoding.
	var decoded string
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return decoded, true, nil
	}
	return raw, true, nil
}
