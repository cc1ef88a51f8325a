package domain

import "time"

// Session is the authenticated view derived from a verified token and exposed
// to the rest of the application. The mapping from claims is total and
// lossless for these fields; any other claim is dropped.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	TokenID   string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuditAction identifies an authentication event recorded in the audit trail.
type AuditAction string

const (
	AuditLoginSuccess AuditAction = "login_success"
	AuditLoginFailure AuditAction = "login_failure"
	AuditLogout       AuditAction = "logout"
	AuditGateDenied   AuditAction = "gate_denied"
	AuditRevoked      AuditAction = "session_revoked"
)

// AuditEvent is a single entry in the authentication audit trail.
type AuditEvent struct {
	Username  string      `json:"username"`
	Action    AuditAction `json:"action"`
	Reason    string      `json:"reason,omitempty"`
	RemoteIP  string      `json:"remote_ip,omitempty"`
	Path      string      `json:"path,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
