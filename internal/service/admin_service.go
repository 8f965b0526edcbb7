package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/riteshkumar/loan-ledger/internal/auth"
	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/repository"
)

type AdminService interface {
	CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	VerifyUserAccount(ctx context.Context, userID, adminID string) (*models.Account, error)
	UpdateLoanStatus(ctx context.Context, loanID, adminID, status string) (*models.Loan, error)
}

// TokenIssuer issues the token pair returned on login.
type TokenIssuer interface {
	Issue(subject, email string, role models.Role) (string, string, error)
}

type AdminServiceImpl struct {
	txManager   repository.TxManager
	adminRepo   repository.AdminRepository
	accountRepo repository.AccountRepository
	loanRepo    repository.LoanRepository
	tokens      TokenIssuer
	logger      *slog.Logger
}

func NewAdminService(txManager repository.TxManager, adminRepo repository.AdminRepository, accountRepo repository.AccountRepository, loanRepo repository.LoanRepository, tokens TokenIssuer, logger *slog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{
		txManager:   txManager,
		adminRepo:   adminRepo,
		accountRepo: accountRepo,
		loanRepo:    loanRepo,
		tokens:      tokens,
		logger:      logger,
	}
}

func (s *AdminServiceImpl) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.adminRepo.GetAdminByEmail(ctx, email); err == nil {
		s.logger.Warn("admin already exists", "email", email)
		return nil, errors.ErrAdminAlreadyExists
	} else if !errors.IsNotFound(err) {
		s.logger.Error("failed to look up admin by email", "error", err.Error())
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash admin password", "error", err.Error())
		return nil, err
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName(req.FirstName, req.LastName),
		PhoneNumber:  req.PhoneNumber,
		Role:         models.RoleAdmin,
	}
	if err := s.adminRepo.CreateAdmin(ctx, admin); err != nil {
		if errors.IsConflict(err) {
			s.logger.Warn("admin already exists", "email", email)
			return nil, err
		}
		s.logger.Error("failed to create admin",
			"email", email,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("admin created successfully", "admin_id", admin.ID)
	return admin, nil
}

func (s *AdminServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	admin, err := s.adminRepo.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("login attempt for unknown admin", "email", email)
			return nil, errors.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up admin by email", "error", err.Error())
		return nil, err
	}

	if !auth.CheckPassword(req.Password, admin.PasswordHash) {
		s.logger.Warn("login attempt with wrong password", "admin_id", admin.ID)
		return nil, errors.ErrInvalidCredentials
	}

	token, refreshToken, err := s.tokens.Issue(admin.ID, admin.Email, admin.Role)
	if err != nil {
		s.logger.Error("failed to issue tokens",
			"admin_id", admin.ID,
			"error", err.Error(),
		)
		return nil, err
	}

	return &models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		Admin:        admin,
	}, nil
}

// VerifyUserAccount marks the account verified by adminID. Re-verifying
// simply overwrites the verifying admin.
func (s *AdminServiceImpl) VerifyUserAccount(ctx context.Context, userID, adminID string) (*models.Account, error) {
	if _, err := s.accountRepo.GetAccountByID(ctx, userID); err != nil {
		s.logLookupError(err, "account", userID)
		return nil, err
	}
	if _, err := s.adminRepo.GetAdminByID(ctx, adminID); err != nil {
		s.logLookupError(err, "admin", adminID)
		return nil, err
	}

	// Only the verification columns are written so a concurrent profile
	// update cannot be lost or undo the flag.
	if err := s.accountRepo.SetAccountVerified(ctx, userID, adminID); err != nil {
		s.logLookupError(err, "account", userID)
		return nil, err
	}

	account, err := s.accountRepo.GetAccountByID(ctx, userID)
	if err != nil {
		s.logLookupError(err, "account", userID)
		return nil, err
	}

	s.logger.Info("account verified",
		"account_id", userID,
		"admin_id", adminID,
	)
	return account, nil
}

// UpdateLoanStatus moves a loan to APPROVED, REJECTED, REPAID or OUTSTANDING.
// The current status is not consulted.
func (s *AdminServiceImpl) UpdateLoanStatus(ctx context.Context, loanID, adminID, status string) (*models.Loan, error) {
	target, ok := models.ParseAdminLoanStatus(status)
	if !ok {
		s.logger.Warn("invalid loan status",
			"loan_id", loanID,
			"status", status,
		)
		return nil, errors.ErrInvalidLoanStatus
	}

	var loan *models.Loan
	err := s.txManager.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		loan, err = s.loanRepo.GetLoanByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if _, err := s.adminRepo.GetAdminByID(ctx, adminID); err != nil {
			return err
		}

		loan.Status = target
		loan.VerifiedBy = &adminID
		if err := s.loanRepo.UpdateLoanStatus(ctx, tx, loan); err != nil {
			if errors.IsConflict(err) {
				return err
			}
			return errors.NewTransactionError("update loan status", err)
		}
		return nil
	})
	if err != nil {
		if errors.IsConflict(err) {
			s.logger.Warn("loan status change conflicts with an active loan",
				"loan_id", loanID,
				"status", string(target),
			)
			return nil, err
		}
		s.logLookupError(err, "loan", loanID)
		return nil, err
	}

	s.logger.Info("loan status updated",
		"loan_id", loanID,
		"admin_id", adminID,
		"status", target,
	)
	return loan, nil
}

func (s *AdminServiceImpl) logLookupError(err error, entity, id string) {
	if errors.IsNotFound(err) {
		s.logger.Warn(entity+" lookup failed",
			entity+"_id", id,
			"error", err.Error(),
		)
		return
	}
	s.logger.Error("failed to process "+entity,
		entity+"_id", id,
		"error", err.Error(),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fullName(first, last string) string {
	return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
}
