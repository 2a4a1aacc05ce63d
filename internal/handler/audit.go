package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kvn-koech/car-rental-management-system/internal/model"
)

// AuditLog reads the admin audit trail.
type AuditLog interface {
	List(ctx context.Context, actor model.Actor, limit int) ([]model.AuditEntry, error)
}

// AuditHandler serves /api/admin/audit-log.
type AuditHandler struct {
	Audit AuditLog
}

func NewAuditHandler(a AuditLog) *AuditHandler {
	return &AuditHandler{Audit: a}
}

type auditItem struct {
	ID        uint64  `json:"id"`
	Actor     string  `json:"actor"`
	Action    string  `json:"action"`
	Entity    string  `json:"entity"`
	EntityID  *uint64 `json:"entity_id"`
	Detail    string  `json:"detail"`
	CreatedAt string  `json:"created_at"`
}

// List returns the newest entries. ?limit= defaults to 100.
func (h *AuditHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest(c, "limit must be a positive integer")
		}
		limit = n
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.Audit.List(ctx, actor(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]auditItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditItem{
			ID:        e.ID,
			Actor:     e.Actor,
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}
