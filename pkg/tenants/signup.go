package tenants

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

const minPasswordLength = 8

var (
	// ErrEmailTaken signals a duplicate registration attempt.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAlreadyMember signals a recovery attempt by a user who still
	// has a membership.
	ErrAlreadyMember = errors.New("user already belongs to a tenant")
)

// IdentityAdmin is the slice of the identity provider's admin API the
// signup flow needs: user creation, and deletion for the rollback path.
// CreateUser returns ErrEmailTaken (wrapped or not) for a duplicate
// email so the API layer can answer 409.
type IdentityAdmin interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	DeleteUser(ctx context.Context, userID string) error
}

// SignupRequest carries the registration form.
type SignupRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Nome           string `json:"nome"`
	Cognome        string `json:"cognome"`
	RagioneSociale string `json:"ragione_sociale"`
	PartitaIVA     string `json:"partita_iva,omitempty"`
}

// Validate checks the registration form before any side effect happens.
func (r *SignupRequest) Validate() error {
	if r.Email == "" || r.Password == "" || r.Nome == "" || r.Cognome == "" || r.RagioneSociale == "" {
		return fmt.Errorf("email, password, nome, cognome and ragione_sociale are required")
	}
	if len(r.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// SignupResult reports what a successful registration created.
type SignupResult struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

// SignupFlow provisions a new account: identity user, tenant, owner
// membership and tenant profile. Each step that fails undoes what the
// earlier steps created, so a failed signup leaves no orphaned rows and
// no orphaned identity user.
type SignupFlow struct {
	identity IdentityAdmin
	store    *PostgresService
	logger   *observability.Logger
}

// NewSignupFlow creates a SignupFlow.
func NewSignupFlow(identity IdentityAdmin, store *PostgresService, logger *observability.Logger) *SignupFlow {
	return &SignupFlow{identity: identity, store: store, logger: logger}
}

// Signup runs the full registration chain.
func (f *SignupFlow) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID, err := f.identity.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tenantID, err := f.provisionTenant(ctx, userID, req.RagioneSociale, req.PartitaIVA)
	if err != nil {
		if delErr := f.identity.DeleteUser(ctx, userID); delErr != nil {
			f.logger.WithError(delErr).WithField("user_id", userID).
				Error("signup rollback: failed to delete identity user")
		}
		return nil, err
	}

	f.logger.WithField("user_id", userID).WithField("tenant_id", tenantID).
		Info("signup completed")
	return &SignupResult{UserID: userID, TenantID: tenantID}, nil
}

// Recover rebuilds the tenant side of an account whose identity user
// survived a partial signup: a tenant, its profile and an owner
// membership. It refuses to run for users that still hold a membership.
func (f *SignupFlow) Recover(ctx context.Context, userID, ragioneSociale string) (*SignupResult, error) {
	if ragioneSociale == "" {
		return nil, fmt.Errorf("ragione_sociale is required")
	}

	resolution := f.store.CurrentMembership(ctx, userID)
	switch resolution.State {
	case ResolutionFound:
		return nil, ErrAlreadyMember
	case ResolutionQueryError:
		return nil, resolution.Err
	}

	tenantID, err := f.provisionTenant(ctx, userID, ragioneSociale, "")
	if err != nil {
		return nil, err
	}

	f.logger.WithField("user_id", userID).WithField("tenant_id", tenantID).
		Info("account recovered")
	return &SignupResult{UserID: userID, TenantID: tenantID}, nil
}

// provisionTenant creates tenant, owner membership and profile. On
// failure it deletes the tenant, which cascades over whatever later
// steps managed to create.
func (f *SignupFlow) provisionTenant(ctx context.Context, userID, ragioneSociale, partitaIVA string) (string, error) {
	tenant, err := f.store.CreateTenant(ctx, ragioneSociale)
	if err != nil {
		return "", fmt.Errorf("failed to create tenant: %w", err)
	}

	rollback := func(cause error) {
		if delErr := f.store.DeleteTenant(ctx, tenant.ID); delErr != nil {
			f.logger.WithError(delErr).WithField("tenant_id", tenant.ID).
				Error("signup rollback: failed to delete tenant")
		}
		f.logger.WithError(cause).WithField("tenant_id", tenant.ID).
			Warn("signup rolled back")
	}

	if _, err := f.store.AddMember(ctx, tenant.ID, userID, permissions.RoleOwner, nil); err != nil {
		err = fmt.Errorf("failed to create owner membership: %w", err)
		rollback(err)
		return "", err
	}

	profile := &TenantProfile{TenantID: tenant.ID, RagioneSociale: ragioneSociale}
	if partitaIVA != "" {
		profile.PartitaIVA = &partitaIVA
	}
	if err := f.store.CreateProfile(ctx, profile); err != nil {
		err = fmt.Errorf("failed to create tenant profile: %w", err)
		rollback(err)
		return "", err
	}

	return tenant.ID, nil
}
