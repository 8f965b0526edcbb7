package service

import (
	"context"
	"testing"

	"github.com/riteshkumar/loan-ledger/internal/auth"
	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/models"
)

func validAccountRequest(email string) *models.CreateAccountRequest {
	return &models.CreateAccountRequest{
		FirstName:   "Chioma",
		LastName:    "Eze",
		DateOfBirth: "1994-02-17",
		Email:       email,
		Password:    "Str0ng!pass",
		Address:     "12 Marina Road",
		BVN:         "12345678901",
	}
}

func TestCreateAccount(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, discardLogger())

	account, err := svc.CreateAccount(context.Background(), validAccountRequest("Chioma@Example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if account.Email != "chioma@example.com" {
		t.Errorf("email = %q, want normalized address", account.Email)
	}
	if account.FullName != "Chioma Eze" {
		t.Errorf("full name = %q", account.FullName)
	}
	if account.Status != models.AppStatusPending {
		t.Errorf("status = %s, want PENDING", account.Status)
	}
	if !account.Balance.IsZero() {
		t.Errorf("opening balance = %s, want 0", account.Balance)
	}
	if !auth.CheckPassword("Str0ng!pass", account.PasswordHash) {
		t.Error("expected the stored password to be a bcrypt hash")
	}

	_, err = svc.CreateAccount(context.Background(), validAccountRequest("chioma@example.com"))
	if !errors.Is(err, errors.ErrAccountAlreadyExists) {
		t.Fatalf("expected account already exists, got %v", err)
	}
	if len(store.accounts) != 1 {
		t.Fatalf("expected one account, got %d", len(store.accounts))
	}
}

func TestUpdateAccount(t *testing.T) {
	store := newMemStore()
	svc := NewAccountService(store, discardLogger())
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, validAccountRequest("first@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := svc.CreateAccount(ctx, validAccountRequest("second@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Simulate a verified, funded account.
	stored := store.accounts[created.ID]
	stored.Status = models.AppStatusCompleted
	stored.Balance = dec("42.50")
	store.accounts[created.ID] = stored

	req := validAccountRequest("renamed@example.com")
	req.Password = "N3w!password"
	req.Address = "1 New Street"
	updated, err := svc.UpdateAccount(ctx, created.ID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.AppStatusPending {
		t.Errorf("status = %s, want PENDING after update", updated.Status)
	}
	if updated.Address != "1 New Street" || updated.Email != "renamed@example.com" {
		t.Errorf("profile not updated: %+v", updated)
	}
	if !auth.CheckPassword("N3w!password", store.accounts[created.ID].PasswordHash) {
		t.Error("expected the new password to be hashed and stored")
	}
	if !store.balance(created.ID).Equal(dec("42.50")) {
		t.Errorf("update changed balance to %s", store.balance(created.ID))
	}

	if _, err := svc.UpdateAccount(ctx, created.ID, validAccountRequest(other.Email)); !errors.IsConflict(err) {
		t.Fatalf("expected conflict when taking another account's email, got %v", err)
	}
	if _, err := svc.UpdateAccount(ctx, "missing", req); !errors.Is(err, errors.ErrAccountDoesNotExist) {
		t.Fatalf("expected account does not exist, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "0")
	svc := NewAccountService(store, discardLogger())

	if err := svc.DeleteAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.accounts["acc-1"]; ok {
		t.Fatal("account still stored")
	}
	if err := svc.DeleteAccount(context.Background(), "acc-1"); !errors.Is(err, errors.ErrAccountDoesNotExist) {
		t.Fatalf("expected account does not exist, got %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), ""); !errors.Is(err, errors.ErrInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestDeleteAccount_WithHistory(t *testing.T) {
	tests := []struct {
		name string
		seed func(store *memStore)
	}{
		{name: "loan", seed: func(store *memStore) { store.seedLoan("loan-1", "acc-1", models.LoanStatusRepaid) }},
		{name: "transaction", seed: func(store *memStore) {
			accountID := "acc-1"
			store.transactions = append(store.transactions, models.Transaction{ID: "txn-1", AccountID: &accountID, Amount: dec("5")})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.seedAccount("acc-1", "5")
			tt.seed(store)
			svc := NewAccountService(store, discardLogger())

			err := svc.DeleteAccount(context.Background(), "acc-1")
			if !errors.Is(err, errors.ErrAccountHasHistory) || !errors.IsConflict(err) {
				t.Fatalf("expected account has history conflict, got %v", err)
			}
			if _, ok := store.accounts["acc-1"]; !ok {
				t.Fatal("account must survive a rejected delete")
			}
		})
	}
}

func TestGetAndListAccounts(t *testing.T) {
	store := newMemStore()
	store.seedAccount("acc-1", "10")
	store.seedAccount("acc-2", "20")
	svc := NewAccountService(store, discardLogger())
	ctx := context.Background()

	account, err := svc.GetAccount(ctx, "acc-2")
	if err != nil || !account.Balance.Equal(dec("20")) {
		t.Fatalf("GetAccount = %+v, %v", account, err)
	}
	if _, err := svc.GetAccount(ctx, "missing"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	accounts, err := svc.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
}
