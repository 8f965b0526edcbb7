package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/loan-ledger/internal/auth"
	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/repository"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	UpdateAccount(ctx context.Context, id string, req *models.CreateAccountRequest) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

type AccountServiceImpl struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.accountRepo.GetAccountByEmail(ctx, email); err == nil {
		s.logger.Warn("account already exists", "email", email)
		return nil, errors.ErrAccountAlreadyExists
	} else if !errors.IsNotFound(err) {
		s.logger.Error("failed to look up account by email", "error", err.Error())
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err.Error())
		return nil, err
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName(req.FirstName, req.LastName),
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		BVN:          req.BVN,
		Balance:      decimal.Zero,
		Status:       models.AppStatusPending,
	}

	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		if errors.IsConflict(err) {
			s.logger.Warn("account already exists", "email", email)
			return nil, err
		}

		s.logger.Error("failed to create account",
			"email", email,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("account created successfully",
		"account_id", account.ID,
	)
	return account, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if id == "" {
		return nil, errors.ErrInvalidID
	}

	account, err := s.accountRepo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account not found",
				"account_id", id,
			)
			return nil, err
		}
		s.logger.Error("failed to get account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}

	return account, nil
}

// UpdateAccount replaces the profile, re-hashes the password and puts the
// account back into PENDING.
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, id string, req *models.CreateAccountRequest) (*models.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account does not exist", "account_id", id)
			return nil, errors.ErrAccountDoesNotExist
		}
		s.logger.Error("failed to get account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if email != account.Email {
		if other, err := s.accountRepo.GetAccountByEmail(ctx, email); err == nil && other.ID != account.ID {
			s.logger.Warn("email already used by another account",
				"account_id", id,
				"email", email,
			)
			return nil, errors.ErrAccountAlreadyExists
		} else if err != nil && !errors.IsNotFound(err) {
			s.logger.Error("failed to look up account by email", "error", err.Error())
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err.Error())
		return nil, err
	}

	account.Email = email
	account.PasswordHash = hash
	account.FullName = fullName(req.FirstName, req.LastName)
	account.PhoneNumber = req.PhoneNumber
	account.Address = req.Address
	account.DateOfBirth = req.DateOfBirth
	account.Gender = req.Gender
	account.BVN = req.BVN
	account.Status = models.AppStatusPending

	if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
		s.logger.Error("failed to update account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("account updated successfully", "account_id", id)
	return account, nil
}

func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, id string) error {
	if id == "" {
		return errors.ErrInvalidID
	}

	if err := s.accountRepo.DeleteAccount(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account does not exist", "account_id", id)
			return err
		}
		if errors.IsConflict(err) {
			s.logger.Warn("account has history and cannot be deleted", "account_id", id)
			return err
		}
		s.logger.Error("failed to delete account",
			"account_id", id,
			"error", err.Error(),
		)
		return err
	}

	s.logger.Info("account deleted", "account_id", id)
	return nil
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err.Error())
		return nil, err
	}
	return accounts, nil
}
