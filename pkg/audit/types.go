package audit

import (
	"encoding/json"
	"time"
)

// EventType categorizes an audit event.
type EventType string

const (
	// Authorization events
	EventTypeAuthDenied      EventType = "auth.denied"
	EventTypeAuthAdminDenied EventType = "auth.admin_denied"

	// Account lifecycle
	EventTypeAccountSignup  EventType = "account.signup"
	EventTypeAccountRecover EventType = "account.recover"

	// Tenant events
	EventTypeTenantCreate             EventType = "tenant.create"
	EventTypeTenantDelete             EventType = "tenant.delete"
	EventTypeTenantProfileUpdate      EventType = "tenant.profile_update"
	EventTypeTenantOnboardingComplete EventType = "tenant.onboarding_complete"

	// Membership events
	EventTypeMemberAdd        EventType = "member.add"
	EventTypeMemberRoleChange EventType = "member.role_change"
	EventTypeMemberActivate   EventType = "member.activate"
	EventTypeMemberDeactivate EventType = "member.deactivate"
	EventTypeMemberRemove     EventType = "member.remove"

	// Invitation events
	EventTypeInvitationCreate EventType = "invitation.create"
	EventTypeInvitationAccept EventType = "invitation.accept"
	EventTypeInvitationRevoke EventType = "invitation.revoke"

	// Custom role events
	EventTypeRoleCreate EventType = "role.create"
	EventTypeRoleUpdate EventType = "role.update"
	EventTypeRoleDelete EventType = "role.delete"

	// Fallback for middleware-captured mutations without a specific type
	EventTypeHTTPMutation EventType = "http.mutation"
)

// EventStatus is the outcome of an event.
type EventStatus string

const (
	EventStatusSuccess EventStatus = "success"
	EventStatusFailure EventStatus = "failure"
	EventStatusDenied  EventStatus = "denied"
)

// ResourceType is the kind of resource an event touched.
type ResourceType string

const (
	ResourceTypeTenant     ResourceType = "tenant"
	ResourceTypeProfile    ResourceType = "profile"
	ResourceTypeMember     ResourceType = "member"
	ResourceTypeInvitation ResourceType = "invitation"
	ResourceTypeRole       ResourceType = "role"
	ResourceTypeUser       ResourceType = "user"
)

// AuditEvent is a single audit log entry. UserID is the identity
// provider's user ID; TenantID scopes the event so queries never leak
// another tenant's trail.
type AuditEvent struct {
	ID        int64       `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	EventType EventType   `json:"event_type"`
	Status    EventStatus `json:"status"`

	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`

	ResourceType ResourceType `json:"resource_type,omitempty"`
	ResourceID   string       `json:"resource_id,omitempty"`
	ResourceName string       `json:"resource_name,omitempty"`

	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`

	Message      string                 `json:"message,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`

	Changes *ChangeDetails `json:"changes,omitempty"`
}

// ChangeDetails tracks before/after values for updates.
type ChangeDetails struct {
	Before map[string]interface{} `json:"before,omitempty"`
	After  map[string]interface{} `json:"after,omitempty"`
}

// ToJSON serializes the event.
func (e *AuditEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON deserializes an event.
func FromJSON(data []byte) (*AuditEvent, error) {
	var event AuditEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// SearchFilter narrows an audit query. TenantID is mandatory at the
// handler level; the store itself accepts an empty one for operator
// tooling.
type SearchFilter struct {
	TenantID     string
	UserID       string
	EventTypes   []EventType
	Status       EventStatus
	ResourceType ResourceType
	ResourceID   string
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Offset       int
}

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportFormatJSON   ExportFormat = "json"
	ExportFormatNDJSON ExportFormat = "ndjson"
	ExportFormatCSV    ExportFormat = "csv"
)

// RetentionPolicy controls how long audit rows are kept.
type RetentionPolicy struct {
	MaxAge time.Duration
}

// DefaultRetentionPolicy keeps ninety days of history.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{MaxAge: 90 * 24 * time.Hour}
}
