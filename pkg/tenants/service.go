package tenants

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PostgresService implements tenant, profile and membership persistence
// on PostgreSQL.
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a new PostgresService.
func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db}
}

// CreateTenant creates a new tenant row.
func (s *PostgresService) CreateTenant(ctx context.Context, name string) (*Tenant, error) {
	tenant := &Tenant{ID: uuid.NewString(), Name: name}
	query := `
		INSERT INTO tenants (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query, tenant.ID, tenant.Name).
		Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant, nil
}

// GetTenant retrieves a tenant by ID.
func (s *PostgresService) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	query := `SELECT id, name, created_at, updated_at FROM tenants WHERE id = $1`
	tenant := &Tenant{}
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&tenant.ID, &tenant.Name, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tenant not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

// DeleteTenant hard-deletes a tenant. Used by the signup rollback path;
// memberships and the profile go with it via ON DELETE CASCADE.
func (s *PostgresService) DeleteTenant(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("tenant not found")
	}
	return nil
}

// CreateProfile creates the tenant profile with onboarding not yet
// completed.
func (s *PostgresService) CreateProfile(ctx context.Context, profile *TenantProfile) error {
	query := `
		INSERT INTO tenant_profiles (tenant_id, ragione_sociale, partita_iva, codice_fiscale, indirizzo, onboarding_completed)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query, profile.TenantID, profile.RagioneSociale,
		profile.PartitaIVA, profile.CodiceFiscale, profile.Indirizzo).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tenant profile: %w", err)
	}
	profile.OnboardingCompleted = false
	return nil
}

// GetProfile retrieves the profile for a tenant.
func (s *PostgresService) GetProfile(ctx context.Context, tenantID string) (*TenantProfile, error) {
	query := `
		SELECT tenant_id, ragione_sociale, partita_iva, codice_fiscale, indirizzo,
		       onboarding_completed, created_at, updated_at
		FROM tenant_profiles
		WHERE tenant_id = $1
	`
	profile := &TenantProfile{}
	var partitaIVA, codiceFiscale, indirizzo sql.NullString
	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(
		&profile.TenantID, &profile.RagioneSociale, &partitaIVA, &codiceFiscale, &indirizzo,
		&profile.OnboardingCompleted, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tenant profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant profile: %w", err)
	}
	if partitaIVA.Valid {
		profile.PartitaIVA = &partitaIVA.String
	}
	if codiceFiscale.Valid {
		profile.CodiceFiscale = &codiceFiscale.String
	}
	if indirizzo.Valid {
		profile.Indirizzo = &indirizzo.String
	}
	return profile, nil
}

// UpdateProfile applies a partial update to the tenant profile.
func (s *PostgresService) UpdateProfile(ctx context.Context, tenantID string, updates *UpdateProfileRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if updates.RagioneSociale != nil {
		setClauses = append(setClauses, fmt.Sprintf("ragione_sociale = $%d", argPos))
		args = append(args, *updates.RagioneSociale)
		argPos++
	}
	if updates.PartitaIVA != nil {
		setClauses = append(setClauses, fmt.Sprintf("partita_iva = $%d", argPos))
		args = append(args, *updates.PartitaIVA)
		argPos++
	}
	if updates.CodiceFiscale != nil {
		setClauses = append(setClauses, fmt.Sprintf("codice_fiscale = $%d", argPos))
		args = append(args, *updates.CodiceFiscale)
		argPos++
	}
	if updates.Indirizzo != nil {
		setClauses = append(setClauses, fmt.Sprintf("indirizzo = $%d", argPos))
		args = append(args, *updates.Indirizzo)
		argPos++
	}

	if len(setClauses) == 0 {
		return nil // Nothing to update
	}

	args = append(args, tenantID)
	query := fmt.Sprintf("UPDATE tenant_profiles SET %s, updated_at = NOW() WHERE tenant_id = $%d",
		strings.Join(setClauses, ", "), argPos)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update tenant profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("tenant profile not found")
	}
	return nil
}

// CompleteOnboarding marks the tenant's onboarding as finished, which
// lets the routing guard admit the tenant into the admin area.
func (s *PostgresService) CompleteOnboarding(ctx context.Context, tenantID string) error {
	query := `UPDATE tenant_profiles SET onboarding_completed = TRUE, updated_at = NOW() WHERE tenant_id = $1`
	result, err := s.db.ExecContext(ctx, query, tenantID)
	if err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("tenant profile not found")
	}
	return nil
}

// OnboardingCompleted reports whether the tenant finished onboarding.
// A missing profile counts as not completed. Callers that need to tell
// a missing profile apart from an incomplete one use GetProfile.
func (s *PostgresService) OnboardingCompleted(ctx context.Context, tenantID string) (bool, error) {
	var completed bool
	query := `SELECT onboarding_completed FROM tenant_profiles WHERE tenant_id = $1`
	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(&completed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read onboarding state: %w", err)
	}
	return completed, nil
}
