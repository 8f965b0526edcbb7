package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/repository"
)

type TransactionService interface {
	RecordDisbursement(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error)
	RecordRepayment(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error)
	ApplyTransaction(ctx context.Context, accountID string, amount decimal.Decimal, transactionType string) (*models.Transaction, error)
	GenerateStatement(ctx context.Context, accountID string, period StatementPeriod) ([]models.StatementLine, error)
}

// StatementPeriod bounds a statement. A zero Start or End leaves that side open.
type StatementPeriod struct {
	Start time.Time
	End   time.Time
}

func (p StatementPeriod) contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}

type TransactionServiceImpl struct {
	txManager       repository.TxManager
	accountRepo     repository.AccountRepository
	loanRepo        repository.LoanRepository
	adminRepo       repository.AdminRepository
	transactionRepo repository.TransactionRepository
	logger          *slog.Logger
	now             func() time.Time
}

func NewTransactionService(txManager repository.TxManager, accountRepo repository.AccountRepository, loanRepo repository.LoanRepository, adminRepo repository.AdminRepository, transactionRepo repository.TransactionRepository, logger *slog.Logger) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txManager:       txManager,
		accountRepo:     accountRepo,
		loanRepo:        loanRepo,
		adminRepo:       adminRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// RecordDisbursement pays a loan out and marks it DISBURSED.
func (s *TransactionServiceImpl) RecordDisbursement(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error) {
	return s.recordLoanTransaction(ctx, loanID, adminID, amount, models.TransactionTypeDisbursement, models.LoanStatusDisbursed)
}

// RecordRepayment records a repayment and marks the loan REPAID. The amount
// is not compared against what is owed.
func (s *TransactionServiceImpl) RecordRepayment(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error) {
	return s.recordLoanTransaction(ctx, loanID, adminID, amount, models.TransactionTypeRepayment, models.LoanStatusRepaid)
}

// recordLoanTransaction writes the loan status and the transaction record in
// one database transaction so neither is visible without the other.
func (s *TransactionServiceImpl) recordLoanTransaction(ctx context.Context, loanID, adminID string, amount decimal.Decimal, txnType models.TransactionType, status models.LoanStatus) (*models.Transaction, error) {
	if !amount.IsPositive() {
		s.logger.Warn("invalid loan transaction amount",
			"loan_id", loanID,
			"transaction_type", txnType,
			"amount", amount.String(),
		)
		return nil, errors.ErrInvalidAmount
	}

	var transaction *models.Transaction
	err := s.txManager.WithinTx(ctx, func(tx *sql.Tx) error {
		loan, err := s.loanRepo.GetLoanByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		if _, err := s.adminRepo.GetAdminByID(ctx, adminID); err != nil {
			return err
		}

		loan.Status = status
		loan.VerifiedBy = &adminID
		if err := s.loanRepo.UpdateLoanStatus(ctx, tx, loan); err != nil {
			if errors.IsConflict(err) {
				return err
			}
			return errors.NewTransactionError("update loan status", err)
		}

		transaction = &models.Transaction{
			Amount:          amount,
			TransactionType: txnType,
			TransactionDate: s.now(),
			Status:          models.AppStatusCompleted,
			LoanID:          &loan.ID,
			VerifiedBy:      &adminID,
		}
		if err := s.transactionRepo.Create(ctx, tx, transaction); err != nil {
			return errors.NewTransactionError("create transaction record", err)
		}
		return nil
	})
	if err != nil {
		s.logLoanTransactionError(err, loanID, adminID, txnType)
		return nil, err
	}

	s.logger.Info("loan transaction recorded",
		"transaction_id", transaction.ID,
		"loan_id", loanID,
		"admin_id", adminID,
		"transaction_type", txnType,
		"amount", amount.String(),
	)
	return transaction, nil
}

func (s *TransactionServiceImpl) logLoanTransactionError(err error, loanID, adminID string, txnType models.TransactionType) {
	if errors.IsNotFound(err) {
		s.logger.Warn("loan transaction rejected",
			"loan_id", loanID,
			"admin_id", adminID,
			"transaction_type", txnType,
			"error", err.Error(),
		)
		return
	}
	s.logger.Error("failed to record loan transaction",
		"loan_id", loanID,
		"admin_id", adminID,
		"transaction_type", txnType,
		"error", err.Error(),
	)
}

// ApplyTransaction posts a deposit or withdrawal against an account balance.
// The account row stays locked from read to commit so concurrent withdrawals
// cannot overdraw it.
func (s *TransactionServiceImpl) ApplyTransaction(ctx context.Context, accountID string, amount decimal.Decimal, transactionType string) (*models.Transaction, error) {
	txnType, err := s.validateApplyRequest(accountID, amount, transactionType)
	if err != nil {
		s.logger.Warn("invalid apply transaction request",
			"account_id", accountID,
			"transaction_type", transactionType,
			"amount", amount.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	var transaction *models.Transaction
	err = s.txManager.WithinTx(ctx, func(tx *sql.Tx) error {
		account, err := s.accountRepo.GetAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		newBalance, err := nextBalance(account.Balance, amount, txnType)
		if err != nil {
			s.logger.Warn("insufficient funds for withdrawal",
				"account_id", accountID,
				"available_balance", account.Balance.String(),
				"requested_amount", amount.String(),
			)
			return err
		}

		if err := s.accountRepo.UpdateAccountBalance(ctx, tx, accountID, newBalance); err != nil {
			return errors.NewTransactionError("update account balance", err)
		}

		transaction = &models.Transaction{
			Amount:          amount,
			TransactionType: txnType,
			TransactionDate: s.now(),
			Status:          models.AppStatusCompleted,
			AccountID:       &account.ID,
		}
		if err := s.transactionRepo.Create(ctx, tx, transaction); err != nil {
			return errors.NewTransactionError("create transaction record", err)
		}
		return nil
	})
	if err != nil {
		if !errors.IsNotFound(err) && !errors.IsInsufficientFunds(err) {
			s.logger.Error("failed to apply transaction",
				"account_id", accountID,
				"transaction_type", txnType,
				"error", err.Error(),
			)
		}
		return nil, err
	}

	s.logger.Info("transaction applied",
		"transaction_id", transaction.ID,
		"account_id", accountID,
		"transaction_type", txnType,
		"amount", amount.String(),
	)
	return transaction, nil
}

func (s *TransactionServiceImpl) validateApplyRequest(accountID string, amount decimal.Decimal, transactionType string) (models.TransactionType, error) {
	if accountID == "" {
		return "", errors.NewValidationError("user_id", "must be non-empty")
	}
	txnType, ok := models.ParseTransactionType(transactionType)
	if !ok || !txnType.IsAccountPosting() {
		return "", errors.ErrInvalidTxnType
	}
	if !amount.IsPositive() {
		return "", errors.ErrInvalidAmount
	}
	return txnType, nil
}

// nextBalance applies an account posting to balance.
func nextBalance(balance, amount decimal.Decimal, txnType models.TransactionType) (decimal.Decimal, error) {
	switch txnType {
	case models.TransactionTypeDeposit:
		return balance.Add(amount), nil
	case models.TransactionTypeWithdrawal:
		if balance.LessThan(amount) {
			return balance, errors.ErrInsufficientFunds
		}
		return balance.Sub(amount), nil
	default:
		return balance, fmt.Errorf("%w: %s", errors.ErrInvalidTxnType, txnType)
	}
}

// GenerateStatement lists the account's postings oldest first. Every line
// carries the account's current balance, not a replayed running balance.
func (s *TransactionServiceImpl) GenerateStatement(ctx context.Context, accountID string, period StatementPeriod) ([]models.StatementLine, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account not found", "account_id", accountID)
			return nil, err
		}
		s.logger.Error("failed to get account",
			"account_id", accountID,
			"error", err.Error(),
		)
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to get account transactions",
			"account_id", accountID,
			"error", err.Error(),
		)
		return nil, err
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if a.TransactionDate.Equal(b.TransactionDate) {
			return a.ID < b.ID
		}
		return a.TransactionDate.Before(b.TransactionDate)
	})

	statement := []models.StatementLine{}
	for _, t := range transactions {
		if !period.contains(t.TransactionDate) {
			continue
		}
		statement = append(statement, models.StatementLine{
			TransactionDate:         t.TransactionDate,
			TransactionType:         t.TransactionType,
			Amount:                  t.Amount,
			BalanceAfterTransaction: account.Balance,
		})
	}
	return statement, nil
}
