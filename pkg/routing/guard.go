package routing

import (
	"strings"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

// Page paths the guard watches and the targets it redirects to.
const (
	PathSignIn          = "/sign-in"
	PathSignup          = "/signup"
	PathDashboard       = "/dashboard"
	PathOnboarding      = "/onboarding"
	PathOnboardingStart = "/onboarding/step-1"
	PathMobile          = "/mobile"
	PathMobileHome      = "/mobile/home"
	PathAccountRecovery = "/account-recovery"
	PathTenantError     = "/tenant-error"
)

// guardedPrefixes are the only paths the guard decides on; everything
// else passes through untouched. /account-recovery is deliberately not
// guarded so its redirect can never loop.
var guardedPrefixes = []string{
	PathDashboard,
	PathOnboarding,
	PathSignIn,
	PathSignup,
	PathMobile,
}

// onboardingExempt are prefixes reachable while onboarding is still
// incomplete.
var onboardingExempt = []string{
	PathOnboarding,
	"/api",
	PathTenantError,
	PathAccountRecovery,
	PathMobile,
}

// Input is everything one guard decision depends on. Decide is a pure
// function of it: same input, same outcome, no reads and no writes.
type Input struct {
	Path          string
	Authenticated bool
	// Membership is the resolution state for the authenticated caller;
	// ignored when Authenticated is false.
	Membership tenants.ResolutionState
	Role       roles.EffectiveRole
	// ProfileOK reports that the tenant profile row was read. A missing
	// or unreadable profile is a data-integrity gap, not a permission
	// problem.
	ProfileOK      bool
	OnboardingDone bool
}

// Decide returns the redirect target for a navigation, or "" to let it
// through.
//
// The chain is strictly ordered: authentication, then tenant integrity,
// then area containment (field workers inside /mobile, everyone else
// outside it), then the onboarding gate. Lookup failures route to
// account recovery so a half-provisioned account gets a repair path
// instead of an error page.
func Decide(in Input) string {
	if !isGuarded(in.Path) {
		return ""
	}

	authPage := in.Path == PathSignIn || in.Path == PathSignup

	if !in.Authenticated {
		if authPage {
			return ""
		}
		return PathSignIn
	}

	if in.Membership != tenants.ResolutionFound || !in.ProfileOK {
		return PathAccountRecovery
	}

	restricted := in.Role.IsRestrictedField()

	// Authenticated users have no business on the auth pages: forward
	// them to wherever their state says they belong.
	if authPage {
		if !in.OnboardingDone {
			return PathOnboardingStart
		}
		if restricted {
			return PathMobileHome
		}
		return PathDashboard
	}

	if hasPathPrefix(in.Path, PathMobile) && !restricted {
		return PathDashboard
	}

	if hasPathPrefix(in.Path, PathDashboard) && restricted {
		return PathMobileHome
	}

	if !in.OnboardingDone && !isOnboardingExempt(in.Path) {
		return PathOnboardingStart
	}

	return ""
}

func isGuarded(path string) bool {
	for _, prefix := range guardedPrefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isOnboardingExempt(path string) bool {
	for _, prefix := range onboardingExempt {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches whole path segments: /dashboard and
// /dashboard/commesse, but not /dashboard-v2.
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
