package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const defaultQueryTimeout = 5 * time.Second

// PostgresBackend stores each collection as one JSONB row keyed by the
// collection key. It lets several server processes share one inventory; the
// per-key locks of Store still only serialize writers within a process.
type PostgresBackend struct {
	db      *sql.DB
	table   string
	timeout time.Duration
}

// OpenPostgres connects to dsn and creates table if it does not exist.
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("while opening postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("while pinging postgres: %w", err)
	}

	b := &PostgresBackend{
		db:      db,
		table:   pq.QuoteIdentifier(table),
		timeout: defaultQueryTimeout,
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, b.table))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("while creating table %s: %w", b.table, err)
	}

	return b, nil
}

func (b *PostgresBackend) Close() error {
	return b.db.Close()
}

func (b *PostgresBackend) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	var value []byte
	err := b.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, b.table), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (b *PostgresBackend) Put(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	_, err := b.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		b.table), key, string(value))
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "invalid_text_representation" {
		return fmt.Errorf("value for key %q is not valid JSON: %w", key, err)
	}
	return err
}

func (b *PostgresBackend) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	_, err := b.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, b.table), key)
	return err
}
