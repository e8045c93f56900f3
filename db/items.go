// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ItemStore keeps JSON documents by key in the json_item table
type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// GetJSONItem decodes the item stored under key into v.
// It returns false without touching v when the key is absent.
func (s *ItemStore) GetJSONItem(ctx context.Context, key string, v any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM json_item WHERE item_key = $1
	`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query item %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("failed to decode item %s: %w", key, err)
	}
	return true, nil
}

// SetJSONItem stores v under key, replacing any previous value
func (s *ItemStore) SetJSONItem(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode item %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO json_item (item_key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_key) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at
	`, key, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save item %s: %w", key, err)
	}
	return nil
}
