package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
)

// memStore is an in-memory stand-in for the Postgres repositories and the
// unit of work. WithinTx snapshots the store and restores it when fn fails.
type memStore struct {
	accounts     map[string]models.Account
	admins       map[string]models.Admin
	loans        map[string]models.Loan
	transactions []models.Transaction
	nextID       int

	txCalls             int
	failTransactionSave error
	// staleActiveCheck makes HasLoanInStatus miss active loans, as a
	// concurrent application would.
	staleActiveCheck bool
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]models.Account{},
		admins:   map[string]models.Admin{},
		loans:    map[string]models.Loan{},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.txCalls++
	snapshot := m.snapshot()
	if err := fn(nil); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type memSnapshot struct {
	accounts     map[string]models.Account
	loans        map[string]models.Loan
	transactions []models.Transaction
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		accounts:     make(map[string]models.Account, len(m.accounts)),
		loans:        make(map[string]models.Loan, len(m.loans)),
		transactions: slices.Clone(m.transactions),
	}
	for k, v := range m.accounts {
		s.accounts[k] = v
	}
	for k, v := range m.loans {
		s.loans[k] = v
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.accounts = s.accounts
	m.loans = s.loans
	m.transactions = s.transactions
}

// seed helpers

func (m *memStore) seedAccount(id string, balance string) {
	m.accounts[id] = models.Account{
		ID:      id,
		Email:   id + "@example.com",
		Balance: decimal.RequireFromString(balance),
		Status:  models.AppStatusPending,
	}
}

func (m *memStore) seedAdmin(id string) {
	m.admins[id] = models.Admin{ID: id, Email: id + "@example.com", Role: models.RoleAdmin}
}

func (m *memStore) seedLoan(id, accountID string, status models.LoanStatus) {
	m.loans[id] = models.Loan{
		ID:           id,
		AccountID:    accountID,
		Amount:       decimal.RequireFromString("1000.00"),
		InterestRate: decimal.NewFromInt(10),
		TotalAmount:  decimal.RequireFromString("1100.00"),
		Tenure:       12,
		Status:       status,
	}
}

// AccountRepository

func (m *memStore) CreateAccount(ctx context.Context, account *models.Account) error {
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return errors.ErrAccountAlreadyExists
		}
	}
	if account.ID == "" {
		account.ID = m.id("acc")
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.accounts[account.ID] = *account
	return nil
}

func (m *memStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return &a, nil
}

func (m *memStore) GetAccountByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	return m.GetAccountByID(ctx, id)
}

func (m *memStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, errors.ErrAccountNotFound
}

func (m *memStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	stored, ok := m.accounts[account.ID]
	if !ok {
		return errors.ErrAccountNotFound
	}
	updated := *account
	updated.Balance = stored.Balance
	updated.Verified = stored.Verified
	updated.VerifiedBy = stored.VerifiedBy
	updated.UpdatedAt = time.Now()
	m.accounts[account.ID] = updated
	return nil
}

func (m *memStore) SetAccountVerified(ctx context.Context, id, adminID string) error {
	a, ok := m.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	a.Verified = true
	a.VerifiedBy = &adminID
	a.UpdatedAt = time.Now()
	m.accounts[id] = a
	return nil
}

func (m *memStore) UpdateAccountBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal) error {
	a, ok := m.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	a.Balance = newBalance
	m.accounts[id] = a
	return nil
}

func (m *memStore) DeleteAccount(ctx context.Context, id string) error {
	if _, ok := m.accounts[id]; !ok {
		return errors.ErrAccountDoesNotExist
	}
	for _, l := range m.loans {
		if l.AccountID == id {
			return errors.ErrAccountHasHistory
		}
	}
	for _, t := range m.transactions {
		if t.AccountID != nil && *t.AccountID == id {
			return errors.ErrAccountHasHistory
		}
	}
	delete(m.accounts, id)
	return nil
}

func (m *memStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	accounts := []*models.Account{}
	for _, a := range m.accounts {
		a := a
		accounts = append(accounts, &a)
	}
	return accounts, nil
}

// AdminRepository

func (m *memStore) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	for _, a := range m.admins {
		if a.Email == admin.Email {
			return errors.ErrAdminAlreadyExists
		}
	}
	if admin.ID == "" {
		admin.ID = m.id("adm")
	}
	admin.CreatedAt = time.Now()
	m.admins[admin.ID] = *admin
	return nil
}

func (m *memStore) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	a, ok := m.admins[id]
	if !ok {
		return nil, errors.ErrAdminNotFound
	}
	return &a, nil
}

func (m *memStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, errors.ErrAdminNotFound
}

// LoanRepository

// activeLoanTaken mirrors the partial unique index on loans.
func (m *memStore) activeLoanTaken(loan models.Loan) bool {
	if !slices.Contains(models.ActiveLoanStatuses, loan.Status) {
		return false
	}
	for _, l := range m.loans {
		if l.ID != loan.ID && l.AccountID == loan.AccountID && slices.Contains(models.ActiveLoanStatuses, l.Status) {
			return true
		}
	}
	return false
}

func (m *memStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	if m.activeLoanTaken(*loan) {
		return errors.ErrActiveLoanExists
	}
	if loan.ID == "" {
		loan.ID = m.id("loan")
	}
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	m.loans[loan.ID] = *loan
	return nil
}

func (m *memStore) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	l, ok := m.loans[id]
	if !ok {
		return nil, errors.ErrLoanNotFound
	}
	return &l, nil
}

func (m *memStore) GetLoanByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Loan, error) {
	return m.GetLoanByID(ctx, id)
}

func (m *memStore) UpdateLoanStatus(ctx context.Context, tx *sql.Tx, loan *models.Loan) error {
	stored, ok := m.loans[loan.ID]
	if !ok {
		return errors.ErrLoanNotFound
	}
	stored.Status = loan.Status
	stored.VerifiedBy = loan.VerifiedBy
	if m.activeLoanTaken(stored) {
		return errors.ErrActiveLoanExists
	}
	stored.UpdatedAt = time.Now()
	m.loans[loan.ID] = stored
	return nil
}

func (m *memStore) GetLoansByAccountID(ctx context.Context, accountID string) ([]*models.Loan, error) {
	var loans []*models.Loan
	for _, l := range m.loans {
		if l.AccountID == accountID {
			l := l
			loans = append(loans, &l)
		}
	}
	return loans, nil
}

func (m *memStore) HasLoanInStatus(ctx context.Context, accountID string, statuses []models.LoanStatus) (bool, error) {
	if m.staleActiveCheck {
		return false, nil
	}
	for _, l := range m.loans {
		if l.AccountID == accountID && slices.Contains(statuses, l.Status) {
			return true, nil
		}
	}
	return false, nil
}

// TransactionRepository

func (m *memStore) Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error {
	if m.failTransactionSave != nil {
		return m.failTransactionSave
	}
	if transaction.ID == "" {
		transaction.ID = m.id("txn")
	}
	m.transactions = append(m.transactions, *transaction)
	return nil
}

// GetByAccountID returns postings in insertion order; callers must sort.
func (m *memStore) GetByAccountID(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for _, t := range m.transactions {
		if t.AccountID != nil && *t.AccountID == accountID {
			t := t
			transactions = append(transactions, &t)
		}
	}
	return transactions, nil
}

func (m *memStore) balance(id string) decimal.Decimal {
	return m.accounts[id].Balance
}
