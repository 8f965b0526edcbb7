package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
)

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByID(ctx context.Context, id string) (*models.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type PostgresAdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

func (r *PostgresAdminRepository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}

	query := `INSERT INTO admins (id, email, password_hash, full_name, phone_number, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		admin.ID, admin.Email, admin.PasswordHash, admin.FullName, admin.PhoneNumber, admin.Role,
	).Scan(&admin.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrAdminAlreadyExists
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *PostgresAdminRepository) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, full_name, phone_number, role, created_at
		FROM admins WHERE id = $1`, id)
}

func (r *PostgresAdminRepository) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, full_name, phone_number, role, created_at
		FROM admins WHERE email = $1`, email)
}

func (r *PostgresAdminRepository) getOne(ctx context.Context, query string, arg string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.FullName, &admin.PhoneNumber, &admin.Role, &admin.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}
