package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
)

type LoanRepository interface {
	CreateLoan(ctx context.Context, loan *models.Loan) error
	GetLoanByID(ctx context.Context, id string) (*models.Loan, error)
	GetLoanByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Loan, error)
	UpdateLoanStatus(ctx context.Context, tx *sql.Tx, loan *models.Loan) error
	GetLoansByAccountID(ctx context.Context, accountID string) ([]*models.Loan, error)
	HasLoanInStatus(ctx context.Context, accountID string, statuses []models.LoanStatus) (bool, error)
}

type PostgresLoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *PostgresLoanRepository {
	return &PostgresLoanRepository{db: db}
}

const loanColumns = `id, account_id, amount, interest_rate, total_amount, tenure, status,
	verified_by, created_at, updated_at`

func scanLoan(row rowScanner) (*models.Loan, error) {
	loan := &models.Loan{}
	var verifiedBy sql.NullString
	err := row.Scan(
		&loan.ID, &loan.AccountID, &loan.Amount, &loan.InterestRate, &loan.TotalAmount,
		&loan.Tenure, &loan.Status, &verifiedBy, &loan.CreatedAt, &loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	loan.VerifiedBy = stringPtr(verifiedBy)
	return loan, nil
}

func (r *PostgresLoanRepository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	if loan.ID == "" {
		loan.ID = uuid.New().String()
	}

	query := `INSERT INTO loans (id, account_id, amount, interest_rate, total_amount, tenure, status,
			verified_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		loan.ID,
		loan.AccountID,
		loan.Amount,
		loan.InterestRate,
		loan.TotalAmount,
		loan.Tenure,
		loan.Status,
		nullableString(loan.VerifiedBy),
	).Scan(&loan.CreatedAt, &loan.UpdatedAt)

	if err != nil {
		// uq_loans_active_account
		if isUniqueViolation(err) {
			return errors.ErrActiveLoanExists
		}
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func (r *PostgresLoanRepository) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan by ID: %w", err)
	}
	return loan, nil
}

func (r *PostgresLoanRepository) GetLoanByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	loan, err := scanLoan(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan by ID for update: %w", err)
	}
	return loan, nil
}

// UpdateLoanStatus writes status and verified_by only. Amounts are fixed at
// application time.
func (r *PostgresLoanRepository) UpdateLoanStatus(ctx context.Context, tx *sql.Tx, loan *models.Loan) error {
	query := `UPDATE loans SET status = $1, verified_by = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING updated_at`

	err := tx.QueryRowContext(ctx, query, loan.Status, nullableString(loan.VerifiedBy), loan.ID).
		Scan(&loan.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.ErrLoanNotFound
		}
		if isUniqueViolation(err) {
			return errors.ErrActiveLoanExists
		}
		return fmt.Errorf("failed to update loan status: %w", err)
	}
	return nil
}

func (r *PostgresLoanRepository) GetLoansByAccountID(ctx context.Context, accountID string) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE account_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans by account ID: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over loans: %w", err)
	}
	return loans, nil
}

func (r *PostgresLoanRepository) HasLoanInStatus(ctx context.Context, accountID string, statuses []models.LoanStatus) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM loans WHERE account_id = $1 AND status = ANY($2))`

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, query, accountID, pq.Array(values)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check loans by status: %w", err)
	}
	return exists, nil
}
