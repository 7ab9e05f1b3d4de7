package data

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainauth "github.com/clario/auth-api/internal/domain/auth"
	apperrors "github.com/clario/auth-api/internal/errors"
	"github.com/clario/auth-api/internal/ports"
)

// Ensure UserRepo satisfies the user-store port.
var _ ports.UserStore = (*UserRepo)(nil)

// UserRepo provides database operations for platform users.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// userRow maps the users table columns.
type userRow struct {
	ID             string `db:"id"`
	Email          string `db:"email"`
	Name           string `db:"name"`
	LearningTypeID *int64 `db:"learning_type_id"`
}

func (u userRow) toDomain() domainauth.User {
	return domainauth.User{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		LearningTypeID: u.LearningTypeID,
	}
}

const upsertUserQuery = `
	INSERT INTO users (id, email, name)
	VALUES ($1, $2, $3)
	ON CONFLICT (email) DO UPDATE
		SET name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE users.name END
	RETURNING id, email, name, learning_type_id
`

// UpsertByEmail finds or creates the user keyed by email. A fresh record gets
// a generated ID; an existing one keeps its ID and learning type and picks up
// a non-empty name from the provider.
func (r *UserRepo) UpsertByEmail(ctx context.Context, email, name string) (domainauth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domainauth.User{}, apperrors.Validation("email is required")
	}

	rows, err := r.pool.Query(ctx, upsertUserQuery, uuid.NewString(), email, strings.TrimSpace(name))
	if err != nil {
		return domainauth.User{}, apperrors.MapDBError(err)
	}
	defer rows.Close()

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return domainauth.User{}, apperrors.MapDBError(err)
	}
	return row.toDomain(), nil
}

const findUserByIDQuery = `
	SELECT id, email, name, learning_type_id
	FROM users
	WHERE id = $1
`

// FindByID returns the user with the given ID, or ports.ErrUserNotFound.
func (r *UserRepo) FindByID(ctx context.Context, id string) (domainauth.User, error) {
	if id == "" {
		return domainauth.User{}, ports.ErrUserNotFound
	}

	rows, err := r.pool.Query(ctx, findUserByIDQuery, id)
	if err != nil {
		return domainauth.User{}, apperrors.MapDBError(err)
	}
	defer rows.Close()

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.User{}, ports.ErrUserNotFound
		}
		return domainauth.User{}, apperrors.MapDBError(err)
	}
	return row.toDomain(), nil
}
