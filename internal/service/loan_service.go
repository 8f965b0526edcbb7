package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/repository"
)

var hundred = decimal.NewFromInt(100)

type LoanService interface {
	ApplyForLoan(ctx context.Context, req *models.LoanRequest) (*models.Loan, error)
	GetLoan(ctx context.Context, id string) (*models.Loan, error)
	GetLoansByUser(ctx context.Context, accountID string) ([]*models.Loan, error)
}

type LoanServiceImpl struct {
	accountRepo repository.AccountRepository
	loanRepo    repository.LoanRepository
	logger      *slog.Logger
}

func NewLoanService(accountRepo repository.AccountRepository, loanRepo repository.LoanRepository, logger *slog.Logger) *LoanServiceImpl {
	return &LoanServiceImpl{
		accountRepo: accountRepo,
		loanRepo:    loanRepo,
		logger:      logger,
	}
}

// ApplyForLoan prices and stores a new APPLIED loan. An account may hold only
// one loan that is not yet rejected or repaid.
func (s *LoanServiceImpl) ApplyForLoan(ctx context.Context, req *models.LoanRequest) (*models.Loan, error) {
	if err := validateLoanRequest(req); err != nil {
		s.logger.Warn("invalid loan request",
			"account_id", req.AccountID,
			"amount", req.Amount.String(),
			"tenure", req.Tenure,
			"error", err.Error(),
		)
		return nil, err
	}

	if _, err := s.accountRepo.GetAccountByID(ctx, req.AccountID); err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account not found", "account_id", req.AccountID)
			return nil, err
		}
		s.logger.Error("failed to get account",
			"account_id", req.AccountID,
			"error", err.Error(),
		)
		return nil, err
	}

	active, err := s.loanRepo.HasLoanInStatus(ctx, req.AccountID, models.ActiveLoanStatuses)
	if err != nil {
		s.logger.Error("failed to check active loans",
			"account_id", req.AccountID,
			"error", err.Error(),
		)
		return nil, err
	}
	if active {
		s.logger.Warn("account already has an active loan", "account_id", req.AccountID)
		return nil, errors.ErrActiveLoanExists
	}

	rate := InterestRate(req.Tenure)
	loan := &models.Loan{
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		InterestRate: rate,
		TotalAmount:  TotalRepayable(req.Amount, rate),
		Tenure:       req.Tenure,
		Status:       models.LoanStatusApplied,
	}

	if err := s.loanRepo.CreateLoan(ctx, loan); err != nil {
		// a concurrent application won the active-loan index
		if errors.IsConflict(err) {
			s.logger.Warn("account already has an active loan",
				"account_id", req.AccountID,
			)
			return nil, errors.ErrActiveLoanExists
		}
		s.logger.Error("failed to create loan",
			"account_id", req.AccountID,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("loan applied successfully",
		"loan_id", loan.ID,
		"account_id", loan.AccountID,
		"total_amount", loan.TotalAmount.String(),
	)
	return loan, nil
}

func (s *LoanServiceImpl) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	if id == "" {
		return nil, errors.ErrInvalidID
	}

	loan, err := s.loanRepo.GetLoanByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("loan not found", "loan_id", id)
			return nil, err
		}
		s.logger.Error("failed to get loan",
			"loan_id", id,
			"error", err.Error(),
		)
		return nil, err
	}
	return loan, nil
}

func (s *LoanServiceImpl) GetLoansByUser(ctx context.Context, accountID string) ([]*models.Loan, error) {
	loans, err := s.loanRepo.GetLoansByAccountID(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to get loans for account",
			"account_id", accountID,
			"error", err.Error(),
		)
		return nil, err
	}
	if len(loans) == 0 {
		return nil, errors.ErrNoLoansFound
	}
	return loans, nil
}

func validateLoanRequest(req *models.LoanRequest) error {
	if req.AccountID == "" {
		return errors.NewValidationError("user_id", "must be non-empty")
	}
	if !req.Amount.IsPositive() {
		return errors.NewValidationError("loan_amount", "must be positive")
	}
	if req.Tenure < 1 {
		return errors.ErrInvalidTenure
	}
	return nil
}

// InterestRate returns the flat percentage charged for a tenure in months.
func InterestRate(tenure int) decimal.Decimal {
	switch {
	case tenure <= 6:
		return decimal.NewFromInt(5)
	case tenure <= 12:
		return decimal.NewFromInt(10)
	default:
		return decimal.NewFromInt(15)
	}
}

// TotalRepayable is principal plus flat interest, rounded to two places.
func TotalRepayable(principal, ratePercent decimal.Decimal) decimal.Decimal {
	interest := principal.Mul(ratePercent).Div(hundred)
	return principal.Add(interest).Round(2)
}
