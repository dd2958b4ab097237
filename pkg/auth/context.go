package auth

import (
	"context"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/contextkeys"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
)

// TenantContext is the tenant slice of an authorized request: which
// tenant the caller acts in and with what effective role.
type TenantContext struct {
	TenantID string              `json:"tenant_id"`
	Role     roles.EffectiveRole `json:"-"`
}

// Context is the authorization context of one request. It is built per
// request by the authorization wrapper and attached to the request
// context; it is never stored in a session. Two requests from the same
// user may see different contexts if the membership changed in between.
type Context struct {
	User   identity.User `json:"user"`
	Tenant TenantContext `json:"tenant"`
}

// RoleKey returns the effective role key for area and permission
// decisions.
func (c *Context) RoleKey() string {
	return c.Tenant.Role.EffectiveKey()
}

// WithContext attaches the authorization context to the request
// context.
func WithContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, contextkeys.AuthKey, ac)
}

// FromContext retrieves the authorization context. The bool is false on
// requests that did not pass through the authorization wrapper.
func FromContext(ctx context.Context) (*Context, bool) {
	ac, ok := ctx.Value(contextkeys.AuthKey).(*Context)
	return ac, ok && ac != nil
}
