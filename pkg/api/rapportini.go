package api

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Rapportino is a daily time report: which member worked how many hours
// on which commessa. It is the representative resource for the
// own-versus-all permission split: operai only ever see their own rows,
// admin-level roles see the whole tenant.
type Rapportino struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id"`
	Data      string    `json:"data"`
	Commessa  *string   `json:"commessa,omitempty"`
	Ore       float64   `json:"ore"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RapportiniStore is the Postgres persistence for time reports. Every
// query is tenant-scoped; there is no way to read across tenants.
type RapportiniStore struct {
	db *sql.DB
}

// NewRapportiniStore creates a store over an open database handle.
func NewRapportiniStore(db *sql.DB) *RapportiniStore {
	return &RapportiniStore{db: db}
}

const rapportinoColumns = `id, tenant_id, user_id, data, commessa, ore, note, created_at, updated_at`

// List returns all reports of a tenant, newest working day first.
func (s *RapportiniStore) List(ctx context.Context, tenantID string) ([]*Rapportino, error) {
	query := fmt.Sprintf(`SELECT %s FROM rapportini WHERE tenant_id = $1 ORDER BY data DESC, id DESC`, rapportinoColumns)
	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rapportini: %w", err)
	}
	defer rows.Close()
	return scanRapportini(rows)
}

// ListByUser returns one member's reports, newest working day first.
func (s *RapportiniStore) ListByUser(ctx context.Context, tenantID, userID string) ([]*Rapportino, error) {
	query := fmt.Sprintf(`SELECT %s FROM rapportini WHERE tenant_id = $1 AND user_id = $2 ORDER BY data DESC, id DESC`, rapportinoColumns)
	rows, err := s.db.QueryContext(ctx, query, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rapportini: %w", err)
	}
	defer rows.Close()
	return scanRapportini(rows)
}

// Get returns a single report within the tenant.
func (s *RapportiniStore) Get(ctx context.Context, tenantID string, id int64) (*Rapportino, error) {
	query := fmt.Sprintf(`SELECT %s FROM rapportini WHERE tenant_id = $1 AND id = $2`, rapportinoColumns)
	r := &Rapportino{}
	var commessa, note sql.NullString
	err := s.db.QueryRowContext(ctx, query, tenantID, id).Scan(
		&r.ID, &r.TenantID, &r.UserID, &r.Data, &commessa, &r.Ore, &note, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rapportino not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rapportino: %w", err)
	}
	if commessa.Valid {
		r.Commessa = &commessa.String
	}
	if note.Valid {
		r.Note = &note.String
	}
	return r, nil
}

// Create inserts a report and fills in its generated fields.
func (s *RapportiniStore) Create(ctx context.Context, r *Rapportino) error {
	query := `
		INSERT INTO rapportini (tenant_id, user_id, data, commessa, ore, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		r.TenantID, r.UserID, r.Data, r.Commessa, r.Ore, r.Note,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rapportino: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a report.
func (s *RapportiniStore) Update(ctx context.Context, r *Rapportino) error {
	query := `
		UPDATE rapportini
		SET data = $1, commessa = $2, ore = $3, note = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6`
	result, err := s.db.ExecContext(ctx, query, r.Data, r.Commessa, r.Ore, r.Note, r.TenantID, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update rapportino: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rapportino not found")
	}
	return nil
}

// Delete removes a report within the tenant.
func (s *RapportiniStore) Delete(ctx context.Context, tenantID string, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rapportini WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete rapportino: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rapportino not found")
	}
	return nil
}

func scanRapportini(rows *sql.Rows) ([]*Rapportino, error) {
	var out []*Rapportino
	for rows.Next() {
		r := &Rapportino{}
		var commessa, note sql.NullString
		if err := rows.Scan(
			&r.ID, &r.TenantID, &r.UserID, &r.Data, &commessa, &r.Ore, &note, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rapportino: %w", err)
		}
		if commessa.Valid {
			r.Commessa = &commessa.String
		}
		if note.Valid {
			r.Note = &note.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
