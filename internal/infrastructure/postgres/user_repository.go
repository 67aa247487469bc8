package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `
	u.id, u.username, u.email, u.name, u.phone, u.role_id, r.name, u.password_hash, u.is_active,
	u.failed_login_attempts, u.locked_until, u.must_change_password, u.last_login, u.created_at, u.updated_at`

const userFrom = ` FROM users u JOIN roles r ON r.id = u.role_id`

var userOrderCols = map[string]string{
	"username":   "u.username",
	"name":       "u.name",
	"email":      "u.email",
	"created_at": "u.created_at",
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Name, &u.Phone, &u.RoleID, &u.RoleName, &u.PasswordHash, &u.IsActive,
		&u.FailedLoginAttempts, &u.LockedUntil, &u.MustChangePassword, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// uniqueUserErr distingue email y username duplicados por el índice violado.
func uniqueUserErr(err error) error {
	switch violatedConstraint(err) {
	case "users_email_key":
		return domain.ErrEmailAlreadyExists
	case "":
		return nil
	default:
		return domain.ErrDuplicate
	}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, name, phone, role_id, password_hash, is_active,
			failed_login_attempts, locked_until, must_change_password, last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.Name, u.Phone, u.RoleID, u.PasswordHash, u.IsActive,
		u.FailedLoginAttempts, u.LockedUntil, u.MustChangePassword, u.LastLogin, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if dup := uniqueUserErr(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update actualiza todos los campos editables, incluido el estado de bloqueo.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET username = $2, email = $3, name = $4, phone = $5, role_id = $6, password_hash = $7,
			is_active = $8, failed_login_attempts = $9, locked_until = $10, must_change_password = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.Name, u.Phone, u.RoleID, u.PasswordHash,
		u.IsActive, u.FailedLoginAttempts, u.LockedUntil, u.MustChangePassword, u.UpdatedAt,
	)
	if err != nil {
		if dup := uniqueUserErr(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLoginState sólo escribe contador, bloqueo y último acceso.
func (r *UserRepo) UpdateLoginState(ctx context.Context, u *entity.User) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET failed_login_attempts = $2, locked_until = $3, last_login = $4 WHERE id = $1`,
		u.ID, u.FailedLoginAttempts, u.LockedUntil, u.LastLogin,
	)
	if err != nil {
		return fmt.Errorf("update login state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, "SELECT"+userColumns+userFrom+" WHERE "+where+" LIMIT 1", arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "lower(u.email) = lower($1)", email)
}

// GetByLogin acepta username o email.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	return r.findOne(ctx, "(lower(u.username) = lower($1) OR lower(u.email) = lower($1))", login)
}

// List busca por username, nombre o email.
func (r *UserRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	l := buildList(f, "u.id", []string{"u.username", "u.name", "u.email"}, userOrderCols, "username")
	where := l.whereClause()
	total, err := count(ctx, r.q, "SELECT COUNT(*)"+userFrom+where, l.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	rows, err := r.q.Query(ctx, "SELECT"+userColumns+userFrom+where+l.order+l.page, l.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// CountByRole usuarios asignados al rol.
func (r *UserRepo) CountByRole(ctx context.Context, roleID string) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM users WHERE role_id = $1`, roleID)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// CountByStatus usuarios activos e inactivos.
func (r *UserRepo) CountByStatus(ctx context.Context) (active, inactive int, err error) {
	err = r.q.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_active), COUNT(*) FILTER (WHERE NOT is_active) FROM users`,
	).Scan(&active, &inactive)
	if err != nil {
		return 0, 0, fmt.Errorf("count users by status: %w", err)
	}
	return active, inactive, nil
}
