package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/riteshkumar/loan-ledger/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error
	GetByAccountID(ctx context.Context, accountID string) ([]*models.Transaction, error)
}

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error {
	// Generate UUID if not set
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	query := `INSERT INTO transactions (id, amount, transaction_type, transaction_date, status,
			account_id, loan_id, verified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.ExecContext(ctx, query,
		transaction.ID,
		transaction.Amount,
		transaction.TransactionType,
		transaction.TransactionDate,
		transaction.Status,
		nullableString(transaction.AccountID),
		nullableString(transaction.LoanID),
		nullableString(transaction.VerifiedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByAccountID returns account postings only, oldest first.
func (r *PostgresTransactionRepository) GetByAccountID(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	query := `SELECT id, amount, transaction_type, transaction_date, status, account_id, loan_id, verified_by
		FROM transactions
		WHERE account_id = $1
		ORDER BY transaction_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions by account ID: %w", err)
	}
	defer rows.Close()
	var transactions []*models.Transaction
	for rows.Next() {
		transaction := &models.Transaction{}
		var accountRef, loanRef, verifiedBy sql.NullString
		err := rows.Scan(&transaction.ID, &transaction.Amount, &transaction.TransactionType, &transaction.TransactionDate,
			&transaction.Status, &accountRef, &loanRef, &verifiedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transaction.AccountID = stringPtr(accountRef)
		transaction.LoanID = stringPtr(loanRef)
		transaction.VerifiedBy = stringPtr(verifiedBy)
		transactions = append(transactions, transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}
