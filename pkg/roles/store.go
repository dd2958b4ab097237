package roles

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

// Store handles custom role persistence
type Store struct {
	db *sql.DB
}

// NewStore creates a new custom role store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a tenant-authored role.
func (s *Store) Create(ctx context.Context, tenantID, createdBy string, in CreateInput) (*CustomRole, error) {
	permsJSON, err := json.Marshal(in.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal permissions: %w", err)
	}

	role := &CustomRole{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
		Permissions: in.Permissions,
		Icon:        in.Icon,
		CreatedBy:   &createdBy,
	}

	query := `
		INSERT INTO custom_roles (id, tenant_id, name, description, is_system_role, system_role_key, permissions, icon, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	now := time.Now()
	_, err = s.db.ExecContext(ctx, query,
		role.ID,
		role.TenantID,
		role.Name,
		role.Description,
		false,
		nil,
		string(permsJSON),
		role.Icon,
		now,
		now,
		role.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom role: %w", err)
	}

	role.CreatedAt = now
	role.UpdatedAt = now
	return role, nil
}

// Get retrieves a custom role by ID within a tenant.
func (s *Store) Get(ctx context.Context, tenantID, roleID string) (*CustomRole, error) {
	query := `
		SELECT id, tenant_id, name, description, is_system_role, system_role_key, permissions, icon, created_at, updated_at, created_by
		FROM custom_roles
		WHERE id = $1 AND tenant_id = $2
	`
	role, err := scanRole(s.db.QueryRowContext(ctx, query, roleID, tenantID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("custom role not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom role: %w", err)
	}
	return role, nil
}

// List returns all roles of a tenant, system roles first.
func (s *Store) List(ctx context.Context, tenantID string) ([]*CustomRole, error) {
	query := `
		SELECT id, tenant_id, name, description, is_system_role, system_role_key, permissions, icon, created_at, updated_at, created_by
		FROM custom_roles
		WHERE tenant_id = $1
		ORDER BY is_system_role DESC, name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom roles: %w", err)
	}
	defer rows.Close()

	var out []*CustomRole
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom role: %w", err)
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Update applies a partial update to a tenant-authored role. System roles
// cannot be modified.
func (s *Store) Update(ctx context.Context, tenantID, roleID string, in UpdateInput) error {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *in.Name)
		argPos++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *in.Description)
		argPos++
	}
	if in.Permissions != nil {
		permsJSON, err := json.Marshal(in.Permissions)
		if err != nil {
			return fmt.Errorf("failed to marshal permissions: %w", err)
		}
		setClauses = append(setClauses, fmt.Sprintf("permissions = $%d", argPos))
		args = append(args, string(permsJSON))
		argPos++
	}
	if in.Icon != nil {
		setClauses = append(setClauses, fmt.Sprintf("icon = $%d", argPos))
		args = append(args, *in.Icon)
		argPos++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now())
	argPos++

	args = append(args, roleID, tenantID)
	query := fmt.Sprintf(
		"UPDATE custom_roles SET %s WHERE id = $%d AND tenant_id = $%d AND is_system_role = FALSE",
		joinClauses(setClauses), argPos, argPos+1,
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update custom role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("custom role not found or is a system role")
	}
	return nil
}

// Delete removes a tenant-authored role. System roles cannot be deleted.
func (s *Store) Delete(ctx context.Context, tenantID, roleID string) error {
	query := `DELETE FROM custom_roles WHERE id = $1 AND tenant_id = $2 AND is_system_role = FALSE`
	result, err := s.db.ExecContext(ctx, query, roleID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete custom role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("custom role not found or is a system role")
	}
	return nil
}

func joinClauses(clauses []string) string {
	out := ""
	for i, c := range clauses {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

// scanRole scans a custom role from a database row
func scanRole(scanner interface {
	Scan(dest ...interface{}) error
}) (*CustomRole, error) {
	var role CustomRole
	var description, systemKey, icon, createdBy sql.NullString
	var permsJSON string

	err := scanner.Scan(
		&role.ID,
		&role.TenantID,
		&role.Name,
		&description,
		&role.IsSystemRole,
		&systemKey,
		&permsJSON,
		&icon,
		&role.CreatedAt,
		&role.UpdatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		role.Description = &description.String
	}
	if systemKey.Valid {
		key := permissions.SystemRoleKey(systemKey.String)
		role.SystemKey = &key
	}
	if icon.Valid {
		role.Icon = &icon.String
	}
	if createdBy.Valid {
		role.CreatedBy = &createdBy.String
	}

	if permsJSON != "" {
		if err := json.Unmarshal([]byte(permsJSON), &role.Permissions); err != nil {
			// Corrupt payload degrades to zero grants rather than failing
			// the whole lookup.
			role.Permissions = RolePermissions{}
		}
	}

	return &role, nil
}
