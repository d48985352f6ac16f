package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

const adminColumns = `id, full_name, email, password_hash, role, created_at, updated_at`

type AdminRepositoryImpl struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) ports.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *entities.Admin) error {
	query := `
		INSERT INTO admins (id, full_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.Role == "" {
		admin.Role = entities.AdminRoleAdmin
	}

	err := r.db.QueryRowContext(ctx, query,
		admin.ID, admin.FullName, admin.Email, admin.PasswordHash, admin.Role,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrEmailExists
		}
		return fmt.Errorf("create admin: %w", err)
	}

	return nil
}

func (r *AdminRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	var admin entities.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin by id: %w", err)
	}

	return &admin, nil
}

func (r *AdminRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	var admin entities.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}

	return &admin, nil
}
