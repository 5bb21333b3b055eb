package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

const userColumns = `id, name, email, password_hash, permissions, reset_token, reset_token_expiry, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, permissions, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW(), NOW()
		)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Permissions.Strings(),
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindByResetToken returns the first user holding token whose expiry is at
// or after notBefore.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string, notBefore time.Time) (models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token = $1 AND reset_token_expiry >= $2
		ORDER BY created_at
		LIMIT 1
	`
	return scanUser(r.pool.QueryRow(ctx, query, token, notBefore))
}

func (r *UserRepository) SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error {
	const query = `
		UPDATE users SET reset_token = $2, reset_token_expiry = $3, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, token, expiry)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetPassword stores a new hash and clears the reset token in a single
// statement. The token is matched again so a concurrent reset cannot reuse it.
func (r *UserRepository) ResetPassword(ctx context.Context, id string, token string, passwordHash string) (models.User, error) {
	query := `
		UPDATE users
		SET password_hash = $3, reset_token = NULL, reset_token_expiry = NULL, updated_at = NOW()
		WHERE id = $1 AND reset_token = $2
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, token, passwordHash))
}

func (r *UserRepository) UpdatePermissions(ctx context.Context, id string, permissions models.Permissions) (models.User, error) {
	query := `
		UPDATE users SET permissions = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, permissions.Strings()))
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ClearExpiredResetTokens removes reset tokens that expired before cutoff.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		UPDATE users SET reset_token = NULL, reset_token_expiry = NULL, updated_at = NOW()
		WHERE reset_token IS NOT NULL AND reset_token_expiry < $1
	`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user        models.User
		permissions []string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&permissions,
		&user.ResetToken,
		&user.ResetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.Permissions = make(models.Permissions, len(permissions))
	for i, p := range permissions {
		user.Permissions[i] = models.Permission(p)
	}
	return user, nil
}
