package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionCookie is the cookie carrying the session token for browser
// requests; API clients send the same token as a bearer header.
const SessionCookie = "apptvn_session"

// ErrUnauthenticated signals a request with no valid session or bearer
// token.
var ErrUnauthenticated = errors.New("not authenticated")

// User is the authenticated identity attached to a request. It carries
// no tenant information; tenant membership is resolved per request.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Provider authenticates incoming requests.
type Provider interface {
	// UserFromRequest returns the authenticated user for the request, or
	// ErrUnauthenticated when the request carries no valid credentials.
	UserFromRequest(r *http.Request) (*User, error)
}

// tokenVerifier verifies a raw token and returns the user plus the
// token expiry.
type tokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (User, time.Time, error)
}

// oidcVerifier adapts the go-oidc verifier to tokenVerifier.
type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (User, time.Time, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return User{}, time.Time{}, fmt.Errorf("failed to verify token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return User{}, time.Time{}, fmt.Errorf("failed to parse claims: %w", err)
	}
	if idToken.Subject == "" {
		return User{}, time.Time{}, fmt.Errorf("missing subject in token")
	}

	return User{ID: idToken.Subject, Email: claims.Email}, idToken.Expiry, nil
}

// OIDCProvider authenticates requests against an OpenID Connect issuer.
// Verified tokens are cached with a short TTL so hot request paths do
// not re-verify the same token signature on every call; authorization
// state is never cached here.
type OIDCProvider struct {
	verifier tokenVerifier
	cache    *lru.LRU[string, User]
}

// Config configures the OIDC provider.
type Config struct {
	IssuerURL string
	ClientID  string
	// CacheSize bounds the verified-token cache; CacheTTL must stay well
	// below typical token lifetimes.
	CacheSize int
	CacheTTL  time.Duration
}

// NewOIDCProvider discovers the issuer and builds a verifying provider.
func NewOIDCProvider(ctx context.Context, cfg Config) (*OIDCProvider, error) {
	if cfg.IssuerURL == "" {
		return nil, fmt.Errorf("issuer URL is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}

	return &OIDCProvider{
		verifier: &oidcVerifier{verifier: verifier},
		cache:    lru.NewLRU[string, User](cfg.CacheSize, nil, cfg.CacheTTL),
	}, nil
}

// UserFromRequest authenticates the request from its bearer header or
// session cookie.
func (p *OIDCProvider) UserFromRequest(r *http.Request) (*User, error) {
	rawToken := tokenFromRequest(r)
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}

	if user, ok := p.cache.Get(rawToken); ok {
		return &user, nil
	}

	user, expiry, err := p.verifier.Verify(r.Context(), rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if time.Until(expiry) > 0 {
		p.cache.Add(rawToken, user)
	}

	return &user, nil
}

// tokenFromRequest extracts the raw token: Authorization header first,
// session cookie second.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return token
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
