package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

var auditOrder = orderSpec{allowed: []string{"created_at", "action", "entity"}, def: "created_at", defDesc: true}

// AuditUseCase registro y consulta de la auditoría.
type AuditUseCase struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditRepository, log *logger.Logger) *AuditUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditUseCase{repo: repo, log: log.Named("audit")}
}

// Record guarda una acción. Un fallo al auditar se registra en el log y no interrumpe la operación.
func (uc *AuditUseCase) Record(ctx context.Context, userID, action, entityName, detail string) {
	e := &entity.AuditEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Entity:    entityName,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		uc.log.Error().Err(err).Str("action", action).Str("entity", entityName).Msg("no se pudo registrar auditoría")
	}
}

// List auditoría paginada; por defecto los registros más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.AuditEntryResponse], error) {
	f := toFilter(&q, auditOrder)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toAuditEntryResponse(e))
	}
	return dto.NewListResponse(items, q, total), nil
}

func toAuditEntryResponse(e *entity.AuditEntry) dto.AuditEntryResponse {
	return dto.AuditEntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Username:  e.Username,
		Action:    e.Action,
		Entity:    e.Entity,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}
