package models

import "strings"

type LoanStatus string

const (
	LoanStatusApplied     LoanStatus = "APPLIED"
	LoanStatusApproved    LoanStatus = "APPROVED"
	LoanStatusRejected    LoanStatus = "REJECTED"
	LoanStatusDisbursed   LoanStatus = "DISBURSED"
	LoanStatusRepaid      LoanStatus = "REPAID"
	LoanStatusOutstanding LoanStatus = "OUTSTANDING"
)

// ActiveLoanStatuses are the statuses that block a new application.
var ActiveLoanStatuses = []LoanStatus{
	LoanStatusApplied,
	LoanStatusApproved,
	LoanStatusDisbursed,
	LoanStatusOutstanding,
}

// ParseAdminLoanStatus accepts only the statuses an admin may set directly.
// Disbursement and repayment go through the ledger instead.
func ParseAdminLoanStatus(token string) (LoanStatus, bool) {
	switch s := LoanStatus(strings.TrimSpace(token)); s {
	case LoanStatusApproved, LoanStatusRejected, LoanStatusRepaid, LoanStatusOutstanding:
		return s, true
	}
	return "", false
}

type TransactionType string

const (
	TransactionTypeDeposit      TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal   TransactionType = "WITHDRAWAL"
	TransactionTypeDisbursement TransactionType = "DISBURSEMENT"
	TransactionTypeRepayment    TransactionType = "REPAYMENT"
)

func ParseTransactionType(token string) (TransactionType, bool) {
	switch t := TransactionType(strings.TrimSpace(token)); t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeDisbursement, TransactionTypeRepayment:
		return t, true
	}
	return "", false
}

// IsAccountPosting reports whether the type moves an account balance.
func (t TransactionType) IsAccountPosting() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

type AppStatus string

const (
	AppStatusPending   AppStatus = "PENDING"
	AppStatusCompleted AppStatus = "COMPLETED"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)
