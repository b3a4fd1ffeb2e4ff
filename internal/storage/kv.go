package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// KV reads and writes blobs in the kv_store table created by the migrations.
// It works for any driver sqlx can rebind placeholders for.
type KV struct {
	DB *sqlx.DB
}

// Get returns the blob stored under key and whether it exists.
func (kv KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := kv.DB.GetContext(ctx, &value, kv.DB.Rebind("SELECT value FROM kv_store WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Put stores value under key, replacing any previous blob.
func (kv KV) Put(ctx context.Context, key string, value []byte) error {
	query := kv.DB.Rebind(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	_, err := kv.DB.ExecContext(ctx, query, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
