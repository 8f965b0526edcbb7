package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/riteshkumar/loan-ledger/internal/auth"
	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
	"github.com/riteshkumar/loan-ledger/internal/service"
	"github.com/riteshkumar/loan-ledger/internal/validation"
)

type mockAccountService struct {
	CreateAccountFunc func(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error)
	GetAccountFunc    func(ctx context.Context, id string) (*models.Account, error)
	UpdateAccountFunc func(ctx context.Context, id string, req *models.CreateAccountRequest) (*models.Account, error)
	DeleteAccountFunc func(ctx context.Context, id string) error
	ListAccountsFunc  func(ctx context.Context) ([]*models.Account, error)
}

func (m *mockAccountService) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	return m.CreateAccountFunc(ctx, req)
}

func (m *mockAccountService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return m.GetAccountFunc(ctx, id)
}

func (m *mockAccountService) UpdateAccount(ctx context.Context, id string, req *models.CreateAccountRequest) (*models.Account, error) {
	return m.UpdateAccountFunc(ctx, id, req)
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, id string) error {
	return m.DeleteAccountFunc(ctx, id)
}

func (m *mockAccountService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return m.ListAccountsFunc(ctx)
}

type mockAdminService struct {
	CreateAdminFunc       func(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error)
	LoginFunc             func(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	VerifyUserAccountFunc func(ctx context.Context, userID, adminID string) (*models.Account, error)
	UpdateLoanStatusFunc  func(ctx context.Context, loanID, adminID, status string) (*models.Loan, error)
}

func (m *mockAdminService) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error) {
	return m.CreateAdminFunc(ctx, req)
}

func (m *mockAdminService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	return m.LoginFunc(ctx, req)
}

func (m *mockAdminService) VerifyUserAccount(ctx context.Context, userID, adminID string) (*models.Account, error) {
	return m.VerifyUserAccountFunc(ctx, userID, adminID)
}

func (m *mockAdminService) UpdateLoanStatus(ctx context.Context, loanID, adminID, status string) (*models.Loan, error) {
	return m.UpdateLoanStatusFunc(ctx, loanID, adminID, status)
}

type mockLoanService struct {
	ApplyForLoanFunc   func(ctx context.Context, req *models.LoanRequest) (*models.Loan, error)
	GetLoanFunc        func(ctx context.Context, id string) (*models.Loan, error)
	GetLoansByUserFunc func(ctx context.Context, accountID string) ([]*models.Loan, error)
}

func (m *mockLoanService) ApplyForLoan(ctx context.Context, req *models.LoanRequest) (*models.Loan, error) {
	return m.ApplyForLoanFunc(ctx, req)
}

func (m *mockLoanService) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	return m.GetLoanFunc(ctx, id)
}

func (m *mockLoanService) GetLoansByUser(ctx context.Context, accountID string) ([]*models.Loan, error) {
	return m.GetLoansByUserFunc(ctx, accountID)
}

type mockTransactionService struct {
	RecordDisbursementFunc func(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error)
	RecordRepaymentFunc    func(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error)
	ApplyTransactionFunc   func(ctx context.Context, accountID string, amount decimal.Decimal, transactionType string) (*models.Transaction, error)
	GenerateStatementFunc  func(ctx context.Context, accountID string, period service.StatementPeriod) ([]models.StatementLine, error)
}

func (m *mockTransactionService) RecordDisbursement(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error) {
	return m.RecordDisbursementFunc(ctx, loanID, adminID, amount)
}

func (m *mockTransactionService) RecordRepayment(ctx context.Context, loanID, adminID string, amount decimal.Decimal) (*models.Transaction, error) {
	return m.RecordRepaymentFunc(ctx, loanID, adminID, amount)
}

func (m *mockTransactionService) ApplyTransaction(ctx context.Context, accountID string, amount decimal.Decimal, transactionType string) (*models.Transaction, error) {
	return m.ApplyTransactionFunc(ctx, accountID, amount, transactionType)
}

func (m *mockTransactionService) GenerateStatement(ctx context.Context, accountID string, period service.StatementPeriod) ([]models.StatementLine, error) {
	return m.GenerateStatementFunc(ctx, accountID, period)
}

// fakeTokens accepts "admin-token" and "user-token".
type fakeTokens struct{}

func (fakeTokens) Parse(token string) (*auth.Claims, error) {
	claims := &auth.Claims{TokenType: auth.TokenTypeAccess}
	switch token {
	case "admin-token":
		claims.Role = models.RoleAdmin
		claims.Subject = "admin-1"
	case "user-token":
		claims.Role = models.RoleUser
		claims.Subject = "user-1"
	default:
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}

type testServices struct {
	accounts     *mockAccountService
	admins       *mockAdminService
	loans        *mockLoanService
	transactions *mockTransactionService
}

// newTestRouter wires handlers the way the server does.
func newTestRouter(s testServices) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validation.New("NG")

	if s.accounts == nil {
		s.accounts = &mockAccountService{}
	}
	if s.admins == nil {
		s.admins = &mockAdminService{}
	}
	if s.loans == nil {
		s.loans = &mockLoanService{}
	}
	if s.transactions == nil {
		s.transactions = &mockTransactionService{}
	}

	accountHandler := NewAccountHandler(s.accounts, v, logger)
	adminHandler := NewAdminHandler(s.admins, v, logger)
	loanHandler := NewLoanHandler(s.loans, v, logger)
	transactionHandler := NewTransactionHandler(s.transactions, v, logger)

	router := mux.NewRouter()
	accountHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)
	loanHandler.RegisterRoutes(router)
	transactionHandler.RegisterRoutes(router)

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(AdminAuthMiddleware(fakeTokens{}, logger))
	accountHandler.RegisterAdminRoutes(adminRouter)
	adminHandler.RegisterAdminRoutes(adminRouter)
	transactionHandler.RegisterAdminRoutes(adminRouter)

	router.Use(LoggingMiddleware(logger))
	return router
}
