package tenants

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

// ListMembers retrieves all members of a tenant with their profile
// fields.
func (s *PostgresService) ListMembers(ctx context.Context, tenantID string) ([]*MemberView, error) {
	query := `
		SELECT id, user_id, tenant_id, role, custom_role_id, is_active, created_at,
		       email, full_name
		FROM tenant_members_view
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*MemberView
	for rows.Next() {
		member := &MemberView{}
		var customRoleID sql.NullString
		var fullName sql.NullString
		if err := rows.Scan(
			&member.ID, &member.UserID, &member.TenantID, &member.Role,
			&customRoleID, &member.IsActive, &member.CreatedAt,
			&member.Email, &fullName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if customRoleID.Valid {
			member.CustomRoleID = &customRoleID.String
		}
		if fullName.Valid {
			member.FullName = fullName.String
		}
		members = append(members, member)
	}

	return members, nil
}

// GetMember retrieves a specific member of a tenant.
func (s *PostgresService) GetMember(ctx context.Context, tenantID, userID string) (*MemberView, error) {
	query := `
		SELECT id, user_id, tenant_id, role, custom_role_id, is_active, created_at,
		       email, full_name
		FROM tenant_members_view
		WHERE tenant_id = $1 AND user_id = $2
	`
	member := &MemberView{}
	var customRoleID sql.NullString
	var fullName sql.NullString
	err := s.db.QueryRowContext(ctx, query, tenantID, userID).Scan(
		&member.ID, &member.UserID, &member.TenantID, &member.Role,
		&customRoleID, &member.IsActive, &member.CreatedAt,
		&member.Email, &fullName,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if customRoleID.Valid {
		member.CustomRoleID = &customRoleID.String
	}
	if fullName.Valid {
		member.FullName = fullName.String
	}

	return member, nil
}

// AddMember adds a user to a tenant with the given role.
func (s *PostgresService) AddMember(ctx context.Context, tenantID, userID string, role permissions.TenantRole, customRoleID *string) (*Membership, error) {
	m := &Membership{
		ID:           uuid.NewString(),
		UserID:       userID,
		TenantID:     tenantID,
		Role:         role,
		CustomRoleID: customRoleID,
		IsActive:     true,
	}
	query := `
		INSERT INTO user_tenants (id, user_id, tenant_id, role, custom_role_id, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (user_id, tenant_id) DO NOTHING
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query, m.ID, m.UserID, m.TenantID, m.Role, m.CustomRoleID).
		Scan(&m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return m, nil
}

// UpdateMemberRole updates a member's legacy role and custom role
// reference. Passing a nil customRoleID detaches any custom role.
func (s *PostgresService) UpdateMemberRole(ctx context.Context, tenantID, userID string, role permissions.TenantRole, customRoleID *string) error {
	query := `UPDATE user_tenants SET role = $1, custom_role_id = $2 WHERE tenant_id = $3 AND user_id = $4`
	result, err := s.db.ExecContext(ctx, query, role, customRoleID, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}

// SetMemberActive activates or deactivates a membership. Deactivated
// members still resolve a tenant but are refused by the authorization
// wrapper.
func (s *PostgresService) SetMemberActive(ctx context.Context, tenantID, userID string, active bool) error {
	query := `UPDATE user_tenants SET is_active = $1 WHERE tenant_id = $2 AND user_id = $3`
	result, err := s.db.ExecContext(ctx, query, active, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to set member active: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}

// RemoveMember removes a user from a tenant.
func (s *PostgresService) RemoveMember(ctx context.Context, tenantID, userID string) error {
	query := `DELETE FROM user_tenants WHERE tenant_id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("member not found")
	}

	return nil
}

// CreateInvitation creates a new invitation. An existing unaccepted
// invitation for the same email is refreshed with a new token and
// expiry.
func (s *PostgresService) CreateInvitation(ctx context.Context, invitation *Invitation) error {
	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	invitation.Token = token

	if invitation.InvitedAt.IsZero() {
		invitation.InvitedAt = time.Now()
	}
	if invitation.ExpiresAt.IsZero() {
		invitation.ExpiresAt = time.Now().Add(7 * 24 * time.Hour) // 7 days
	}

	query := `
		INSERT INTO tenant_invitations (tenant_id, email, role, token, invited_by, invited_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, email) DO UPDATE
		SET token = EXCLUDED.token, role = EXCLUDED.role, invited_at = EXCLUDED.invited_at, expires_at = EXCLUDED.expires_at
		RETURNING id
	`
	err = s.db.QueryRowContext(ctx, query, invitation.TenantID, invitation.Email, invitation.Role,
		invitation.Token, invitation.InvitedBy, invitation.InvitedAt, invitation.ExpiresAt).
		Scan(&invitation.ID)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

// GetInvitation retrieves an invitation by token.
func (s *PostgresService) GetInvitation(ctx context.Context, token string) (*Invitation, error) {
	query := `
		SELECT id, tenant_id, email, role, token, invited_by, invited_at, expires_at, accepted_at, accepted_by
		FROM tenant_invitations
		WHERE token = $1
	`
	invitation := &Invitation{}
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&invitation.ID, &invitation.TenantID, &invitation.Email, &invitation.Role,
		&invitation.Token, &invitation.InvitedBy, &invitation.InvitedAt, &invitation.ExpiresAt,
		&invitation.AcceptedAt, &invitation.AcceptedBy,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invitation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return invitation, nil
}

// ListInvitations lists all pending invitations for a tenant.
func (s *PostgresService) ListInvitations(ctx context.Context, tenantID string) ([]*Invitation, error) {
	query := `
		SELECT id, tenant_id, email, role, token, invited_by, invited_at, expires_at, accepted_at, accepted_by
		FROM tenant_invitations
		WHERE tenant_id = $1 AND accepted_at IS NULL
		ORDER BY invited_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		invitation := &Invitation{}
		if err := rows.Scan(
			&invitation.ID, &invitation.TenantID, &invitation.Email, &invitation.Role,
			&invitation.Token, &invitation.InvitedBy, &invitation.InvitedAt, &invitation.ExpiresAt,
			&invitation.AcceptedAt, &invitation.AcceptedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, invitation)
	}

	return invitations, nil
}

// AcceptInvitation accepts an invitation and adds the user to the
// tenant with the invited role.
func (s *PostgresService) AcceptInvitation(ctx context.Context, token, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT id, tenant_id, email, role, expires_at, accepted_at
		FROM tenant_invitations
		WHERE token = $1
		FOR UPDATE
	`
	var id int64
	var tenantID, email string
	var role permissions.TenantRole
	var expiresAt time.Time
	var acceptedAt sql.NullTime

	err = tx.QueryRowContext(ctx, query, token).Scan(&id, &tenantID, &email, &role, &expiresAt, &acceptedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("invitation not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get invitation: %w", err)
	}

	if acceptedAt.Valid {
		return fmt.Errorf("invitation already accepted")
	}
	if time.Now().After(expiresAt) {
		return fmt.Errorf("invitation expired")
	}

	query = `
		INSERT INTO user_tenants (id, user_id, tenant_id, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (user_id, tenant_id) DO NOTHING
	`
	_, err = tx.ExecContext(ctx, query, uuid.NewString(), userID, tenantID, role)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	query = `UPDATE tenant_invitations SET accepted_at = NOW(), accepted_by = $1 WHERE id = $2`
	_, err = tx.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	return tx.Commit()
}

// RevokeInvitation revokes a pending invitation.
func (s *PostgresService) RevokeInvitation(ctx context.Context, tenantID string, id int64) error {
	query := `DELETE FROM tenant_invitations WHERE id = $1 AND tenant_id = $2 AND accepted_at IS NULL`
	result, err := s.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invitation not found or already accepted")
	}

	return nil
}

// CleanupExpiredInvitations removes expired unaccepted invitations.
// Run on a schedule.
func (s *PostgresService) CleanupExpiredInvitations(ctx context.Context) error {
	query := `DELETE FROM tenant_invitations WHERE expires_at < NOW() AND accepted_at IS NULL`
	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired invitations: %w", err)
	}
	return nil
}

// generateToken generates a random invitation token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
