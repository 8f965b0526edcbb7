package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	SetAccountVerified(ctx context.Context, id, adminID string) error
	UpdateAccountBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal) error
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, full_name, phone_number, address, date_of_birth,
	gender, bvn, balance, verified, verified_by, account_status, created_at, updated_at`

func scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	var verifiedBy sql.NullString
	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.FullName, &account.PhoneNumber,
		&account.Address, &account.DateOfBirth, &account.Gender, &account.BVN, &account.Balance,
		&account.Verified, &verifiedBy, &account.Status, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.VerifiedBy = stringPtr(verifiedBy)
	return account, nil
}

func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	query := `INSERT INTO accounts (id, email, password_hash, full_name, phone_number, address,
			date_of_birth, gender, bvn, balance, verified, verified_by, account_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FullName,
		account.PhoneNumber,
		account.Address,
		account.DateOfBirth,
		account.Gender,
		account.BVN,
		account.Balance,
		account.Verified,
		nullableString(account.VerifiedBy),
		account.Status,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) GetAccountByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID for update: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// UpdateAccount persists profile fields and status. Verification is only
// written through SetAccountVerified and the balance through
// UpdateAccountBalance, so a stale profile read cannot undo either.
func (r *PostgresAccountRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET email = $1, password_hash = $2, full_name = $3, phone_number = $4,
			address = $5, date_of_birth = $6, gender = $7, bvn = $8,
			account_status = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		account.Email,
		account.PasswordHash,
		account.FullName,
		account.PhoneNumber,
		account.Address,
		account.DateOfBirth,
		account.Gender,
		account.BVN,
		account.Status,
		account.ID,
	).Scan(&account.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return errors.ErrAccountNotFound
		}
		if isUniqueViolation(err) {
			return errors.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) SetAccountVerified(ctx context.Context, id, adminID string) error {
	query := `UPDATE accounts SET verified = TRUE, verified_by = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, adminID, id)
	if err != nil {
		return fmt.Errorf("failed to verify account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after verifying account: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) UpdateAccountBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := tx.ExecContext(ctx, query, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating account balance: %w", err)
	}

	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}

	return nil
}

func (r *PostgresAccountRepository) DeleteAccount(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		// loans and transactions keep their account reference
		if isForeignKeyViolation(err) {
			return errors.ErrAccountHasHistory
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting account: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrAccountDoesNotExist
	}
	return nil
}

func (r *PostgresAccountRepository) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}
	return accounts, nil
}
