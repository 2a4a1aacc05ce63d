package repository

import (
	"context"
	"database/sql"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
)

// AuditRepo appends to and reads the audit_log table. Rows are never
// updated or deleted.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Record inserts an audit entry.
func (r *AuditRepo) Record(ctx context.Context, e model.AuditEntry) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_log (actor, action, entity, entity_id, detail) VALUES (?,?,?,?,?)",
		e.Actor, e.Action, e.Entity, e.EntityID, e.Detail)
	return err
}

// List returns the most recent entries, newest first. limit <= 0 means 100.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, actor, action, entity, entity_id, detail, created_at FROM audit_log ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AuditEntry{}
	for rows.Next() {
		var (
			e        model.AuditEntry
			entityID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Entity, &entityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if entityID.Valid {
			id := uint64(entityID.Int64)
			e.EntityID = &id
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
