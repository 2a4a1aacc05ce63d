package model

import "time"

// AuditEntry records one administrative action. Actor is the token
// subject: a numeric user id or the literal "admin" for the shared-key
// session.
type AuditEntry struct {
	ID        uint64    // audit_log.id
	Actor     string    // audit_log.actor
	Action    string    // audit_log.action
	Entity    string    // audit_log.entity
	EntityID  *uint64   // audit_log.entity_id (nullable)
	Detail    string    // audit_log.detail
	CreatedAt time.Time // audit_log.created_at
}

// Audit actions.
const (
	AuditAdminLogin       = "admin_login"
	AuditAdminLoginFailed = "admin_login_failed"
	AuditCarCreated       = "car_created"
	AuditCarUpdated       = "car_updated"
	AuditCarDeleted       = "car_deleted"
	AuditBookingStatus    = "booking_status_changed"
)
