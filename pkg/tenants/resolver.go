package tenants

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
)

// ResolutionState distinguishes the three outcomes of membership
// resolution. NotFound means the user genuinely has no membership;
// QueryError means the database could not answer, so callers must not
// treat the user as tenantless.
type ResolutionState int

const (
	ResolutionFound ResolutionState = iota
	ResolutionNotFound
	ResolutionQueryError
)

func (s ResolutionState) String() string {
	switch s {
	case ResolutionFound:
		return "found"
	case ResolutionNotFound:
		return "not_found"
	case ResolutionQueryError:
		return "query_error"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving a user's current tenant
// membership. Membership and Role are populated only when State is
// ResolutionFound; Err only when State is ResolutionQueryError.
type Resolution struct {
	State      ResolutionState
	Membership *Membership
	Role       roles.EffectiveRole
	Err        error
}

// Found reports whether a membership was resolved.
func (r Resolution) Found() bool { return r.State == ResolutionFound }

// CurrentMembership resolves the user's current membership: the most
// recently created user_tenants row, active or not. Activity is checked
// by the caller so that inactive users get a distinct error instead of
// looking tenantless.
func (s *PostgresService) CurrentMembership(ctx context.Context, userID string) Resolution {
	query := `
		SELECT id, user_id, tenant_id, role, custom_role_id, is_active, created_at
		FROM user_tenants
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	m := &Membership{}
	var customRoleID sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&m.ID, &m.UserID, &m.TenantID, &m.Role, &customRoleID, &m.IsActive, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return Resolution{State: ResolutionNotFound}
	}
	if err != nil {
		return Resolution{State: ResolutionQueryError, Err: fmt.Errorf("failed to resolve membership: %w", err)}
	}
	if customRoleID.Valid {
		m.CustomRoleID = &customRoleID.String
	}
	return Resolution{
		State:      ResolutionFound,
		Membership: m,
		Role:       roles.Resolve(m.Role, nil),
	}
}

// CurrentMembershipWithRole resolves the current membership and its
// effective role in a single query, left-joining the custom role so the
// system key is available without a second round trip.
func (s *PostgresService) CurrentMembershipWithRole(ctx context.Context, userID string) Resolution {
	query := `
		SELECT ut.id, ut.user_id, ut.tenant_id, ut.role, ut.custom_role_id, ut.is_active, ut.created_at,
		       cr.name, cr.system_role_key
		FROM user_tenants ut
		LEFT JOIN custom_roles cr ON cr.id = ut.custom_role_id AND cr.tenant_id = ut.tenant_id
		WHERE ut.user_id = $1
		ORDER BY ut.created_at DESC
		LIMIT 1
	`
	m := &Membership{}
	var customRoleID, customName, systemKey sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&m.ID, &m.UserID, &m.TenantID, &m.Role, &customRoleID, &m.IsActive, &m.CreatedAt,
		&customName, &systemKey,
	)
	if err == sql.ErrNoRows {
		return Resolution{State: ResolutionNotFound}
	}
	if err != nil {
		return Resolution{State: ResolutionQueryError, Err: fmt.Errorf("failed to resolve membership: %w", err)}
	}

	var custom *roles.CustomRole
	if customRoleID.Valid {
		m.CustomRoleID = &customRoleID.String
		custom = &roles.CustomRole{
			ID:       customRoleID.String,
			TenantID: m.TenantID,
			Name:     customName.String,
		}
		if systemKey.Valid {
			key := permissions.SystemRoleKey(systemKey.String)
			custom.SystemKey = &key
		}
	}
	return Resolution{
		State:      ResolutionFound,
		Membership: m,
		Role:       roles.Resolve(m.Role, custom),
	}
}
