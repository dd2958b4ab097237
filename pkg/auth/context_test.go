package auth

import (
	"context"
	"testing"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
)

func TestContextRoundTrip(t *testing.T) {
	ac := &Context{
		User:   identity.User{ID: "u-1", Email: "mario@example.com"},
		Tenant: TenantContext{TenantID: "t-1", Role: roles.Resolve(permissions.RoleAdmin, nil)},
	}

	ctx := WithContext(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected authorization context")
	}
	if got.User.ID != "u-1" || got.Tenant.TenantID != "t-1" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.RoleKey() != "admin" {
		t.Errorf("RoleKey() = %q", got.RoleKey())
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("bare context must not yield an authorization context")
	}
}

func TestRoleKeyPrefersCustomSystemKey(t *testing.T) {
	key := permissions.SystemRoleDipendente
	ac := &Context{
		Tenant: TenantContext{
			TenantID: "t-1",
			Role: roles.Resolve(permissions.RoleMember, &roles.CustomRole{
				ID: "cr-1", TenantID: "t-1", SystemKey: &key,
			}),
		},
	}
	if ac.RoleKey() != "dipendente" {
		t.Errorf("RoleKey() = %q, want dipendente", ac.RoleKey())
	}
}
