package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/audit"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/middleware"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
)

// Deps are the collaborators the API server is assembled from. Logger,
// Identity, Authorizer and the domain stores are required; the rest
// may be left zero to disable the corresponding middleware.
type Deps struct {
	Tenants    TenantService
	Roles      RoleStore
	Rapportini RapportinoStore
	Signup     SignupService

	Identity   identity.Provider
	Authorizer *middleware.Authorizer

	Logger  *observability.Logger
	Metrics *observability.Metrics

	// AuditLogger enables the audit middleware; AuditStore additionally
	// mounts the admin-gated /api/audit endpoints.
	AuditLogger audit.Logger
	AuditStore  audit.Store

	// RateLimit, when set, is inserted into the middleware chain.
	RateLimit func(http.Handler) http.Handler

	CORSOrigins  []string
	MaxBodyBytes int64
}

// Server is the AppTVN API server: the mux router, the handler groups
// and the ambient middleware chain around them.
type Server struct {
	router  *mux.Router
	handler http.Handler
	deps    Deps
}

// NewServer assembles the API server.
func NewServer(deps Deps) *Server {
	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
	}
	s.setupRoutes()
	s.handler = s.buildMiddleware()
	return s
}

// setupRoutes mounts every handler group. wrap authorizes any active
// tenant member; adminWrap additionally requires the legacy admin or
// owner role. Signup and recovery stay outside both.
func (s *Server) setupRoutes() {
	wrap := s.deps.Authorizer.WithAuth
	adminWrap := s.deps.Authorizer.WithAdminAuth

	NewAuthHandlers(s.deps.Signup, s.deps.Identity, s.deps.Logger).RegisterRoutes(s.router)
	NewTenantHandlers(s.deps.Tenants, s.deps.Logger).register(s.router, wrap)
	NewMemberHandlers(s.deps.Tenants, s.deps.Identity, s.deps.Logger).register(s.router, wrap, adminWrap)
	NewRoleHandlers(s.deps.Roles, s.deps.Logger).register(s.router, wrap, adminWrap)
	NewRapportiniHandlers(s.deps.Rapportini, s.deps.Logger).register(s.router, wrap)
	NewUserHandlers(s.deps.Tenants, s.deps.Logger).register(s.router, adminWrap)

	if s.deps.AuditStore != nil {
		sub := s.router.PathPrefix("/api").Subrouter()
		sub.Use(mux.MiddlewareFunc(adminWrap))
		audit.NewHandlers(s.deps.AuditStore).RegisterRoutes(sub)
	}
}

// buildMiddleware wraps the router in the ambient chain, outermost
// first: request ID, logging, recovery, metrics, CORS, rate limiting,
// audit capture, body size cap.
func (s *Server) buildMiddleware() http.Handler {
	chain := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.deps.Logger),
		httputil.RecoveryMiddleware(s.deps.Logger),
	}
	if s.deps.Metrics != nil {
		chain = append(chain, observability.HTTPMetricsMiddleware(s.deps.Metrics))
	}
	if len(s.deps.CORSOrigins) > 0 {
		chain = append(chain, httputil.CORSMiddleware(s.deps.CORSOrigins))
	}
	if s.deps.RateLimit != nil {
		chain = append(chain, s.deps.RateLimit)
	}
	if s.deps.AuditLogger != nil {
		chain = append(chain, audit.NewMiddleware(s.deps.AuditLogger, false).Handler)
	}
	if s.deps.MaxBodyBytes > 0 {
		chain = append(chain, httputil.MaxBytesMiddleware(s.deps.MaxBodyBytes))
	}
	return httputil.Chain(chain...)(s.router)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Router exposes the underlying mux for additional route registration
// before the server starts.
func (s *Server) Router() *mux.Router {
	return s.router
}
