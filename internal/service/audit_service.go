package service

import (
	"context"
	"log/slog"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
)

// AuditRepository appends and lists audit entries.
type AuditRepository interface {
	Record(ctx context.Context, e model.AuditEntry) error
	List(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

// recordAudit writes e and only logs a failure; auditing never fails the
// action being audited.
func recordAudit(ctx context.Context, repo AuditRepository, logger *slog.Logger, e model.AuditEntry) {
	if repo == nil {
		return
	}
	if err := repo.Record(ctx, e); err != nil {
		logger.Error("audit write failed", "action", e.Action, "actor", e.Actor, "error", err)
	}
}

// AuditService exposes the audit trail to admins.
type AuditService struct {
	repo AuditRepository
}

// NewAuditService returns an AuditService reading from repo.
func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns up to limit recent entries, newest first.
func (s *AuditService) List(ctx context.Context, actor model.Actor, limit int) ([]model.AuditEntry, error) {
	if !actor.IsAdmin {
		return nil, Forbidden()
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.List(ctx, limit)
}
