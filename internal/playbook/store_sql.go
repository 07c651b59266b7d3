package playbook

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
)

// SQLOverrideStore keeps overrides in the playbook_overrides table.
type SQLOverrideStore struct {
	db *sql.DB
}

func NewSQLOverrideStore(db *sql.DB) *SQLOverrideStore {
	return &SQLOverrideStore{db: db}
}

func (s *SQLOverrideStore) ListOverrides(ctx context.Context) ([]Override, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, band, entry_json, updated_by, updated_at FROM playbook_overrides ORDER BY domain, band`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		var (
			o     Override
			ejson string
		)
		if err := rows.Scan(&o.Domain, &o.Band, &ejson, &o.UpdatedBy, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ejson), &o.Entry); err != nil {
			return nil, fmt.Errorf("override %s/%s: %w", o.Domain, o.Band, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLOverrideStore) PutOverride(ctx context.Context, o Override) error {
	ej, err := json.Marshal(o.Entry)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO playbook_overrides (domain, band, entry_json, updated_by, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (domain, band) DO UPDATE SET entry_json=EXCLUDED.entry_json, updated_by=EXCLUDED.updated_by, updated_at=EXCLUDED.updated_at`,
		string(o.Domain), string(o.Band), string(ej), o.UpdatedBy, o.UpdatedAt)
	return err
}

func (s *SQLOverrideStore) DeleteOverride(ctx context.Context, domain maturity.DomainID, band maturity.Band) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playbook_overrides WHERE domain=$1 AND band=$2`, string(domain), string(band))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
