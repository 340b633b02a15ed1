package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

var (
	ErrAdminNotFound         = errors.New("admin not found")
	ErrAdminUsernameConflict = errors.New("admin username is already taken")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		admin.ID,
		admin.Username,
		admin.PasswordHash,
		admin.Role,
	).Scan(&admin.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "admins_username_key" {
			return ErrAdminUsernameConflict
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *postgresAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.get(ctx, `
		SELECT id, username, password_hash, role, created_at FROM admins
		WHERE username = $1`, username)
}

func (r *postgresAdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.get(ctx, `
		SELECT id, username, password_hash, role, created_at FROM admins
		WHERE id = $1`, id)
}

func (r *postgresAdminRepository) get(ctx context.Context, query string, arg interface{}) (*models.Admin, error) {
	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.Role,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin: %w", err)
	}
	return admin, nil
}

func (r *postgresAdminRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE admins SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	return checkAffectedRows(result, ErrAdminNotFound)
}
