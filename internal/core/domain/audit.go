package domain

import "time"

// AuditEvent records a single lifecycle action applied to a payment. The
// trail is append-only and written asynchronously; it is never consulted by
// the lifecycle engine itself.
type AuditEvent struct {
	PaymentID string
	Status    PaymentStatus
	ActorID   string
	ActorKind PrincipalKind
	Note      string
	Timestamp time.Time
}
