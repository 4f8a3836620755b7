package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// CreateKVTable is the schema the MySQL store expects.
const CreateKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
    k          VARCHAR(191) NOT NULL PRIMARY KEY,
    v          MEDIUMBLOB   NOT NULL,
    updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// MySQL keeps values in the kv_store table.  It suits deployments that
// already run MySQL and want booking history to survive Redis flushes.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

// Migrate creates kv_store when it does not exist.
func (m *MySQL) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, CreateKVTable)
	return err
}

func (m *MySQL) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := m.db.QueryRowContext(ctx, `SELECT v FROM kv_store WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (m *MySQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value)
	return err
}

// Update locks the row with SELECT ... FOR UPDATE and writes the new value
// in the same transaction.
func (m *MySQL) Update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var old []byte
	found := true
	err = tx.QueryRowContext(ctx, `SELECT v FROM kv_store WHERE k = ? FOR UPDATE`, key).Scan(&old)
	if errors.Is(err, sql.ErrNoRows) {
		found, err = false, nil
	}
	if err != nil {
		return err
	}
	v, err := fn(old, found)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, v); err != nil {
		return err
	}
	return tx.Commit()
}

func (m *MySQL) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := m.db.ExecContext(ctx, `DELETE FROM kv_store WHERE k IN (`+placeholders+`)`, args...)
	return err
}
