package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/middleware"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

type fakeIdentity struct {
	user *identity.User
}

func (f *fakeIdentity) UserFromRequest(*http.Request) (*identity.User, error) {
	if f.user == nil {
		return nil, identity.ErrUnauthenticated
	}
	return f.user, nil
}

type fakeResolver struct {
	resolution tenants.Resolution
}

func (f *fakeResolver) CurrentMembershipWithRole(context.Context, string) tenants.Resolution {
	return f.resolution
}

// stubTenantService records calls and serves canned values. err, when
// set, is returned from every method.
type stubTenantService struct {
	err         error
	profile     *tenants.TenantProfile
	members     []*tenants.MemberView
	member      *tenants.MemberView
	membership  *tenants.Membership
	invitations []*tenants.Invitation

	updates       *tenants.UpdateProfileRequest
	onboarded     []string
	added         []string
	roleChanges   []string
	activeChanges []bool
	removed       []string
	created       []*tenants.Invitation
	accepted      []string
	revoked       []int64
}

func (s *stubTenantService) GetProfile(context.Context, string) (*tenants.TenantProfile, error) {
	return s.profile, s.err
}

func (s *stubTenantService) UpdateProfile(_ context.Context, _ string, updates *tenants.UpdateProfileRequest) error {
	s.updates = updates
	return s.err
}

func (s *stubTenantService) CompleteOnboarding(_ context.Context, tenantID string) error {
	s.onboarded = append(s.onboarded, tenantID)
	return s.err
}

func (s *stubTenantService) ListMembers(context.Context, string) ([]*tenants.MemberView, error) {
	return s.members, s.err
}

func (s *stubTenantService) GetMember(context.Context, string, string) (*tenants.MemberView, error) {
	return s.member, s.err
}

func (s *stubTenantService) AddMember(_ context.Context, _ string, userID string, _ permissions.TenantRole, _ *string) (*tenants.Membership, error) {
	s.added = append(s.added, userID)
	return s.membership, s.err
}

func (s *stubTenantService) UpdateMemberRole(_ context.Context, _, userID string, _ permissions.TenantRole, _ *string) error {
	s.roleChanges = append(s.roleChanges, userID)
	return s.err
}

func (s *stubTenantService) SetMemberActive(_ context.Context, _, _ string, active bool) error {
	s.activeChanges = append(s.activeChanges, active)
	return s.err
}

func (s *stubTenantService) RemoveMember(_ context.Context, _, userID string) error {
	s.removed = append(s.removed, userID)
	return s.err
}

func (s *stubTenantService) CreateInvitation(_ context.Context, invitation *tenants.Invitation) error {
	s.created = append(s.created, invitation)
	return s.err
}

func (s *stubTenantService) ListInvitations(context.Context, string) ([]*tenants.Invitation, error) {
	return s.invitations, s.err
}

func (s *stubTenantService) AcceptInvitation(_ context.Context, token, _ string) error {
	s.accepted = append(s.accepted, token)
	return s.err
}

func (s *stubTenantService) RevokeInvitation(_ context.Context, _ string, id int64) error {
	s.revoked = append(s.revoked, id)
	return s.err
}

type stubRoleStore struct {
	err     error
	role    *roles.CustomRole
	list    []*roles.CustomRole
	deleted []string
}

func (s *stubRoleStore) Create(context.Context, string, string, roles.CreateInput) (*roles.CustomRole, error) {
	return s.role, s.err
}

func (s *stubRoleStore) Get(context.Context, string, string) (*roles.CustomRole, error) {
	return s.role, s.err
}

func (s *stubRoleStore) List(context.Context, string) ([]*roles.CustomRole, error) {
	return s.list, s.err
}

func (s *stubRoleStore) Update(context.Context, string, string, roles.UpdateInput) error {
	return s.err
}

func (s *stubRoleStore) Delete(_ context.Context, _, roleID string) error {
	s.deleted = append(s.deleted, roleID)
	return s.err
}

type stubRapportiniStore struct {
	err     error
	reports []*Rapportino
	report  *Rapportino
	listAll int
	listOwn []string
	creates []*Rapportino
	updates []*Rapportino
	deletes []int64
}

func (s *stubRapportiniStore) List(context.Context, string) ([]*Rapportino, error) {
	s.listAll++
	return s.reports, s.err
}

func (s *stubRapportiniStore) ListByUser(_ context.Context, _, userID string) ([]*Rapportino, error) {
	s.listOwn = append(s.listOwn, userID)
	return s.reports, s.err
}

func (s *stubRapportiniStore) Get(context.Context, string, int64) (*Rapportino, error) {
	return s.report, s.err
}

func (s *stubRapportiniStore) Create(_ context.Context, r *Rapportino) error {
	s.creates = append(s.creates, r)
	return s.err
}

func (s *stubRapportiniStore) Update(_ context.Context, r *Rapportino) error {
	s.updates = append(s.updates, r)
	return s.err
}

func (s *stubRapportiniStore) Delete(_ context.Context, _ string, id int64) error {
	s.deletes = append(s.deletes, id)
	return s.err
}

type stubSignup struct {
	result     *tenants.SignupResult
	err        error
	signups    []*tenants.SignupRequest
	recoveries []string
}

func (s *stubSignup) Signup(_ context.Context, req *tenants.SignupRequest) (*tenants.SignupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.signups = append(s.signups, req)
	return s.result, s.err
}

func (s *stubSignup) Recover(_ context.Context, userID, _ string) (*tenants.SignupResult, error) {
	s.recoveries = append(s.recoveries, userID)
	return s.result, s.err
}

// testEnv is one assembled server with all collaborators stubbed. The
// default caller is an active admin of tenant t-1.
type testEnv struct {
	tenants    *stubTenantService
	roles      *stubRoleStore
	rapportini *stubRapportiniStore
	signup     *stubSignup
	identity   *fakeIdentity
	resolver   *fakeResolver
	server     *Server
}

func membershipFor(role permissions.TenantRole) tenants.Resolution {
	return tenants.Resolution{
		State: tenants.ResolutionFound,
		Membership: &tenants.Membership{
			ID:       "m-1",
			UserID:   "user-1",
			TenantID: "t-1",
			Role:     role,
			IsActive: true,
		},
		Role: roles.Resolve(role, nil),
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	env := &testEnv{
		tenants:    &stubTenantService{},
		roles:      &stubRoleStore{},
		rapportini: &stubRapportiniStore{},
		signup:     &stubSignup{},
		identity:   &fakeIdentity{user: &identity.User{ID: "user-1", Email: "admin@impresa.it"}},
		resolver:   &fakeResolver{resolution: membershipFor(permissions.RoleAdmin)},
	}

	env.server = NewServer(Deps{
		Tenants:    env.tenants,
		Roles:      env.roles,
		Rapportini: env.rapportini,
		Signup:     env.signup,
		Identity:   env.identity,
		Authorizer: middleware.NewAuthorizer(env.identity, env.resolver, logger, nil),
		Logger:     logger,
	})
	return env
}

// as switches the caller's role for subsequent requests.
func (e *testEnv) as(role permissions.TenantRole) *testEnv {
	e.resolver.resolution = membershipFor(role)
	return e
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}
