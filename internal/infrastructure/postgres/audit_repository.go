package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo registro de auditoría. Sólo inserción y consulta.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

var auditOrderCols = map[string]string{
	"created_at": "a.created_at",
	"action":     "a.action",
	"entity":     "a.entity",
}

func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_entries (id, user_id, action, entity, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, nullable(e.UserID), e.Action, e.Entity, e.Detail, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List busca por entidad, detalle, acción o usuario.
func (r *AuditRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.AuditEntry, int, error) {
	const from = ` FROM audit_entries a LEFT JOIN users u ON u.id = a.user_id`
	l := buildList(f, "a.id", []string{"a.entity", "a.detail", "a.action", "u.username"}, auditOrderCols, "created_at")
	where := l.whereClause()
	total, err := count(ctx, r.q, `SELECT COUNT(*)`+from+where, l.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT a.id, a.user_id::text, u.username, a.action, a.entity, a.detail, a.created_at`+
		from+where+l.order+l.page, l.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var (
			e                entity.AuditEntry
			userID, username *string
		)
		if err := rows.Scan(&e.ID, &userID, &username, &e.Action, &e.Entity, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		e.UserID, e.Username = deref(userID), deref(username)
		list = append(list, &e)
	}
	return list, total, rows.Err()
}
