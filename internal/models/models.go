package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	FullName     string          `json:"full_name"`
	PhoneNumber  string          `json:"phone_number,omitempty"`
	Address      string          `json:"address"`
	DateOfBirth  string          `json:"date_of_birth"`
	Gender       string          `json:"gender,omitempty"`
	BVN          string          `json:"bvn"`
	Balance      decimal.Decimal `json:"balance"`
	Verified     bool            `json:"verified"`
	VerifiedBy   *string         `json:"verified_by,omitempty"`
	Status       AppStatus       `json:"account_status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Loan struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"user_id"`
	Amount       decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Tenure       int             `json:"tenure"`
	Status       LoanStatus      `json:"status"`
	VerifiedBy   *string         `json:"verified_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Transaction is append-only. Deposits and withdrawals carry AccountID,
// disbursements and repayments carry LoanID.
type Transaction struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
	TransactionDate time.Time       `json:"transaction_date"`
	Status          AppStatus       `json:"status"`
	AccountID       *string         `json:"user_id,omitempty"`
	LoanID          *string         `json:"loan_id,omitempty"`
	VerifiedBy      *string         `json:"verified_by,omitempty"`
}

// StatementLine is one row of an account statement.
type StatementLine struct {
	TransactionDate         time.Time       `json:"transaction_date"`
	TransactionType         TransactionType `json:"transaction_type"`
	Amount                  decimal.Decimal `json:"amount"`
	BalanceAfterTransaction decimal.Decimal `json:"balance_after_transaction"`
}

type CreateAccountRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	Password    string `json:"password" validate:"required,password"`
	Address     string `json:"address" validate:"required"`
	Gender      string `json:"gender"`
	BVN         string `json:"bvn" validate:"required,numeric,len=11"`
}

type CreateAdminRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	Password    string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Admin        *Admin `json:"admin"`
}

type LoanRequest struct {
	AccountID string          `json:"user_id" validate:"required"`
	Amount    decimal.Decimal `json:"loan_amount"`
	Tenure    int             `json:"tenure" validate:"required,min=1"`
}

type UpdateLoanStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type LoanAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ApplyTransactionRequest struct {
	AccountID       string          `json:"user_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type" validate:"required"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Data          any    `json:"data"`
	StatusMessage string `json:"statusMessage"`
}
