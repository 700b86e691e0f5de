package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliolab/folio-api/internal/domain/user"
	"github.com/foliolab/folio-api/pkg/apperror"
)

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, profile_ids, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.ProfileIDs, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.ProfileIDs == nil {
		u.ProfileIDs = []uuid.UUID{}
	}
	return u, nil
}

func (r *postgresUserRepo) findOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, profile_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.ProfileIDs, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("user", "email", u.Email)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// AppendProfile adds a profile reference to the user's ownership set.
// Appending an id the user already holds is a no-op.
func (r *postgresUserRepo) AppendProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	query := `
		UPDATE users
		SET profile_ids = CASE
				WHEN $2 = ANY(profile_ids) THEN profile_ids
				ELSE array_append(profile_ids, $2)
			END,
			updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, userID, profileID)
	if err != nil {
		return fmt.Errorf("failed to append profile reference: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}
	return nil
}

// ClearProfiles empties the user's ownership set.
func (r *postgresUserRepo) ClearProfiles(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET profile_ids = '{}', updated_at = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear profile references: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}
	return nil
}
