package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repos funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// violatedConstraint nombre del constraint o índice único violado ("" si no aplica).
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// listSQL arma WHERE (búsqueda ILIKE sobre cols), ORDER BY (columna permitida o def, con idCol como
// desempate) y LIMIT/OFFSET. Devuelve la cláusula WHERE por separado para reutilizarla en el COUNT.
type listSQL struct {
	where string
	order string
	page  string
	args  []any
}

func buildList(f repository.ListFilter, idCol string, searchCols []string, orderCols map[string]string, def string, args ...any) listSQL {
	var l listSQL
	l.args = args
	if f.Search != "" && len(searchCols) > 0 {
		l.args = append(l.args, "%"+likeEscaper.Replace(f.Search)+"%")
		n := len(l.args)
		conds := make([]string, len(searchCols))
		for i, c := range searchCols {
			conds[i] = fmt.Sprintf("%s::text ILIKE $%d", c, n)
		}
		l.where = "(" + strings.Join(conds, " OR ") + ")"
	}

	col, ok := orderCols[f.OrderBy]
	if !ok {
		col = orderCols[def]
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	l.order = fmt.Sprintf(" ORDER BY %s %s, %s %s", col, dir, idCol, dir)

	if f.Limit > 0 {
		l.page = fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	} else if f.Offset > 0 {
		l.page = fmt.Sprintf(" OFFSET %d", f.Offset)
	}
	return l
}

// whereClause combina condiciones fijas con la de búsqueda en una cláusula WHERE.
func (l listSQL) whereClause(fixed ...string) string {
	conds := append([]string{}, fixed...)
	if l.where != "" {
		conds = append(conds, l.where)
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func count(ctx context.Context, q Querier, sql string, args ...any) (int, error) {
	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
