package usecase

import "context"

// Auditor registra acciones CREAR, EDITAR y BORRAR. Lo implementa AuditUseCase.
type Auditor interface {
	Record(ctx context.Context, userID, action, entityName, detail string)
}

func record(ctx context.Context, a Auditor, userID, action, entityName, detail string) {
	if a != nil {
		a.Record(ctx, userID, action, entityName, detail)
	}
}
