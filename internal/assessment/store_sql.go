package assessment

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLKV stores blobs in the assessment_state table.
type SQLKV struct {
	db *sql.DB
}

func NewSQLKV(db *sql.DB) *SQLKV {
	return &SQLKV{db: db}
}

func (s *SQLKV) Get(ctx context.Context, owner, key string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM assessment_state WHERE owner=$1 AND storage_key=$2`, owner, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (s *SQLKV) Put(ctx context.Context, owner, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessment_state (owner, storage_key, data, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (owner, storage_key) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		owner, key, string(data), time.Now().Unix())
	return err
}

func (s *SQLKV) Delete(ctx context.Context, owner, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM assessment_state WHERE owner=$1 AND storage_key=$2`, owner, key)
	return err
}
