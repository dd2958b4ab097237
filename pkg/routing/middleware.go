package routing

import (
	"context"
	"net/http"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

// MembershipResolver resolves the caller's current tenant membership
// with its custom role joined in.
type MembershipResolver interface {
	CurrentMembershipWithRole(ctx context.Context, userID string) tenants.Resolution
}

// ProfileReader reads the tenant profile for the onboarding gate.
type ProfileReader interface {
	GetProfile(ctx context.Context, tenantID string) (*tenants.TenantProfile, error)
}

// Guard is the page-navigation counterpart of the API authorization
// wrapper: it never renders or rejects, it only redirects. All state is
// read fresh per navigation.
type Guard struct {
	identity identity.Provider
	resolver MembershipResolver
	profiles ProfileReader
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewGuard creates a Guard. metrics may be nil.
func NewGuard(provider identity.Provider, resolver MembershipResolver, profiles ProfileReader, logger *observability.Logger, metrics *observability.Metrics) *Guard {
	return &Guard{
		identity: provider,
		resolver: resolver,
		profiles: profiles,
		logger:   logger,
		metrics:  metrics,
	}
}

// Middleware wraps a page handler with the routing guard. Unguarded
// paths are served directly without any lookup.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isGuarded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		target := Decide(g.collect(r))
		if target == "" {
			next.ServeHTTP(w, r)
			return
		}

		if g.metrics != nil {
			g.metrics.GuardRedirectsTotal.WithLabelValues(target).Inc()
		}
		g.logger.WithField("path", r.URL.Path).WithField("target", target).
			Debug("guard redirect")
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	})
}

// collect gathers the decision input, stopping at the first lookup the
// decision cannot need.
func (g *Guard) collect(r *http.Request) Input {
	in := Input{Path: r.URL.Path}

	user, err := g.identity.UserFromRequest(r)
	if err != nil {
		return in
	}
	in.Authenticated = true

	resolution := g.resolver.CurrentMembershipWithRole(r.Context(), user.ID)
	in.Membership = resolution.State
	if g.metrics != nil {
		g.metrics.MembershipResolutionsTotal.WithLabelValues(resolution.State.String()).Inc()
	}
	if resolution.State != tenants.ResolutionFound {
		if resolution.Err != nil {
			g.logger.WithError(resolution.Err).WithField("user_id", user.ID).
				Error("membership resolution failed during navigation")
		}
		return in
	}
	in.Role = resolution.Role

	profile, err := g.profiles.GetProfile(r.Context(), resolution.Membership.TenantID)
	if err != nil {
		g.logger.WithError(err).WithField("tenant_id", resolution.Membership.TenantID).
			Warn("tenant profile lookup failed during navigation")
		return in
	}
	in.ProfileOK = true
	in.OnboardingDone = profile.OnboardingCompleted

	return in
}
