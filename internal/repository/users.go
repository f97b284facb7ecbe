package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightreel/video-crm/api/internal/entity"
)

var (
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when an insert or update collides with an
	// existing account email.
	ErrEmailTaken = errors.New("email already in use")
)

// UserPatch carries the optional account fields of a partial update; nil
// fields are left as they are.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	Role         *string
}

// UsersRepository describes persistence operations for back-office accounts.
type UsersRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGXUsersRepository implements UsersRepository using pgx.
type PGXUsersRepository struct {
	pool pgxPool
}

// NewPGXUsersRepository wires a pgx backed users repository.
func NewPGXUsersRepository(pool *pgxpool.Pool) *PGXUsersRepository {
	return &PGXUsersRepository{pool: pool}
}

const userColumns = `
    id, email, password_hash, role, created_at, updated_at`

// Create inserts a new account row.
func (r *PGXUsersRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return fmt.Errorf("user payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO users (email, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`,
		user.Email, user.PasswordHash, user.Role)

	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrEmailTaken, user.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail fetches an account by email.
func (r *PGXUsersRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

// GetByID fetches an account by identifier.
func (r *PGXUsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// List returns all accounts, newest first.
func (r *PGXUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Update applies a partial account update and returns the stored row.
func (r *PGXUsersRepository) Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*entity.User, error) {
	set := make([]string, 0, 3)
	args := make([]any, 0, 4)
	idx := 1

	if patch.Email != nil {
		set = append(set, fmt.Sprintf("email = $%d", idx))
		args = append(args, *patch.Email)
		idx++
	}
	if patch.PasswordHash != nil {
		set = append(set, fmt.Sprintf("password_hash = $%d", idx))
		args = append(args, *patch.PasswordHash)
		idx++
	}
	if patch.Role != nil {
		set = append(set, fmt.Sprintf("role = $%d", idx))
		args = append(args, *patch.Role)
		idx++
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING`+userColumns,
		strings.Join(set, ", "), idx)

	user, err := scanUserRow(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: update of %s", ErrEmailTaken, id)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes an account.
func (r *PGXUsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUserRow(row pgx.Row) (*entity.User, error) {
	var user entity.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
