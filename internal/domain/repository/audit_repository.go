package repository

import (
	"context"

	"github.com/jhoicas/dulceria-api/internal/domain/entity"
)

// AuditRepository puerto del registro de auditoría.
type AuditRepository interface {
	Create(ctx context.Context, e *entity.AuditEntry) error
	List(ctx context.Context, f ListFilter) ([]*entity.AuditEntry, int, error)
}
