package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Postgres is an Adapter backed by a single table of content-addressed
// blobs in a Postgres database.
type Postgres struct {
	db    *sql.DB
	table string
}

// NewPostgres opens a connection using the lib/pq driver and ensures the
// backing table exists. dsn is a standard postgres connection string.
func NewPostgres(dsn, table string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := &Postgres{db: db, table: table}
	if _, err := db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, content BYTEA NOT NULL)`, table)); err != nil {
		return nil, fmt.Errorf("create storage table: %w", err)
	}
	return p, nil
}

func (p *Postgres) Put(ctx context.Context, key string, content []byte) error {
	if err := verifyKey(key, content); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, content) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`, p.table),
		key, content)
	return err
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := p.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT content FROM %s WHERE key = $1`, p.table), key).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return content, err
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, p.table), key)
	return err
}

func (p *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE key = $1)`, p.table), key).Scan(&exists)
	return exists, err
}

// Close releases the underlying database connection pool.
func (p *Postgres) Close() error { return p.db.Close() }
