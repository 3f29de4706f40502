package lifecycle

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Store durably persists migration checkpoints across process restarts, so
// a crash mid-migration can be resumed or quarantined rather than lost.
type Store interface {
	Save(ctx context.Context, cp *Checkpoint) error
	Get(ctx context.Context, id string) (*Checkpoint, error)
	ExpiredBefore(ctx context.Context, t time.Time) ([]*Checkpoint, error)
}

var errCheckpointNotFound = fmt.Errorf("checkpoint not found")

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	checkpoints map[string]*Checkpoint
}

// NewMemoryStore returns an empty in-memory checkpoint store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{checkpoints: map[string]*Checkpoint{}}
}

func (m *MemoryStore) Save(ctx context.Context, cp *Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cpCopy := *cp
	m.checkpoints[cp.ID] = &cpCopy
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, ok := m.checkpoints[id]
	if !ok {
		return nil, errCheckpointNotFound
	}
	cpCopy := *cp
	return &cpCopy, nil
}

func (m *MemoryStore) ExpiredBefore(ctx context.Context, t time.Time) ([]*Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Checkpoint
	for _, cp := range m.checkpoints {
		if cp.ExpiresAt.Before(t) && cp.State != StateCompleted {
			cpCopy := *cp
			out = append(out, &cpCopy)
		}
	}
	return out, nil
}

// PostgresStore is a Store backed by a Postgres table, for multi-instance
// deployments where checkpoints must survive a process (not just a
// goroutine) dying mid-migration.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection via the lib/pq driver and ensures the
// backing table exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS migration_checkpoints (
		id TEXT PRIMARY KEY,
		asset_did TEXT NOT NULL,
		from_method TEXT NOT NULL,
		to_method TEXT NOT NULL,
		state TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		return nil, fmt.Errorf("create checkpoint table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Save(ctx context.Context, cp *Checkpoint) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO migration_checkpoints (id, asset_did, from_method, to_method, state, created_at, expires_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET state = $5, reason = $8`,
		cp.ID, cp.AssetDid, cp.FromMethod, cp.ToMethod, cp.State, cp.CreatedAt, cp.ExpiresAt, cp.Reason)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Checkpoint, error) {
	var cp Checkpoint
	err := p.db.QueryRowContext(ctx, `
		SELECT id, asset_did, from_method, to_method, state, created_at, expires_at, reason
		FROM migration_checkpoints WHERE id = $1`, id).
		Scan(&cp.ID, &cp.AssetDid, &cp.FromMethod, &cp.ToMethod, &cp.State, &cp.CreatedAt, &cp.ExpiresAt, &cp.Reason)
	if err == sql.ErrNoRows {
		return nil, errCheckpointNotFound
	}
	return &cp, err
}

func (p *PostgresStore) ExpiredBefore(ctx context.Context, t time.Time) ([]*Checkpoint, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, asset_did, from_method, to_method, state, created_at, expires_at, reason
		FROM migration_checkpoints WHERE expires_at < $1 AND state != $2`, t, StateCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Checkpoint
	for rows.Next() {
		var cp Checkpoint
		if err := rows.Scan(&cp.ID, &cp.AssetDid, &cp.FromMethod, &cp.ToMethod, &cp.State, &cp.CreatedAt, &cp.ExpiresAt, &cp.Reason); err != nil {
			return nil, err
		}
		out = append(out, &cp)
	}
	return out, rows.Err()
}

// Close releases the underlying database connection pool.
func (p *PostgresStore) Close() error { return p.db.Close() }
