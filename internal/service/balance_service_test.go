package service

import (
	"context"
	"errors"
	"testing"

	"adminpanel/internal/model"
	"adminpanel/internal/repository"

	"github.com/shopspring/decimal"
)

func balanceUser() *model.User {
	return &model.User{
		ID:       1,
		Username: "alice",
		Saldo:    decimal.NewFromInt(100),
		Coin:     decimal.NewFromInt(50),
	}
}

func TestAdjustBalanceUpdatesOnlyProvidedFields(t *testing.T) {
	users := newFakeUserStore(balanceUser())
	audits := &fakeAuditStore{}
	svc := NewBalanceService(&fakeTx{}, users, audits)

	result, err := svc.AdjustBalance(context.Background(), "admin-1", "alice", strPtr("250.75"), nil)
	if err != nil {
		t.Fatalf("AdjustBalance err: %v", err)
	}
	if !result.Saldo.Equal(decimal.RequireFromString("250.75")) {
		t.Fatalf("saldo = %s, want 250.75", result.Saldo)
	}
	if !result.Coin.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("coin must stay untouched, got %s", result.Coin)
	}

	stored, _ := users.GetByUsername(context.Background(), "alice")
	if !stored.Saldo.Equal(decimal.RequireFromString("250.75")) {
		t.Fatalf("persisted saldo = %s, want 250.75", stored.Saldo)
	}
	if len(audits.messages) != 1 || audits.messages[0].Action != model.AuditActionAdjustBalance {
		t.Fatal("expected one ADJUST_BALANCE audit message")
	}
}

func TestAdjustBalanceBothFieldsAbsentIsNoop(t *testing.T) {
	users := newFakeUserStore(balanceUser())
	svc := NewBalanceService(&fakeTx{}, users, nil)

	result, err := svc.AdjustBalance(context.Background(), "admin-1", "alice", nil, nil)
	if err != nil {
		t.Fatalf("AdjustBalance err: %v", err)
	}
	if !result.Saldo.Equal(decimal.NewFromInt(100)) || !result.Coin.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("no-op adjustment changed values: saldo=%s coin=%s", result.Saldo, result.Coin)
	}
}

func TestAdjustBalanceRejectsInvalidInputWithoutMutation(t *testing.T) {
	cases := []struct {
		name     string
		newSaldo *string
		newCoin  *string
	}{
		{"non numeric saldo", strPtr("abc"), nil},
		{"negative saldo", strPtr("-5"), nil},
		{"non numeric coin", nil, strPtr("1,5")},
		{"negative coin", nil, strPtr("-0.01")},
		{"valid saldo invalid coin", strPtr("10"), strPtr("x")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUserStore(balanceUser())
			svc := NewBalanceService(&fakeTx{}, users, nil)

			_, err := svc.AdjustBalance(context.Background(), "admin-1", "alice", tc.newSaldo, tc.newCoin)
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount, got %v", err)
			}
			if users.saveCount != 0 {
				t.Fatal("invalid input must not write")
			}
			stored, _ := users.GetByUsername(context.Background(), "alice")
			if !stored.Saldo.Equal(decimal.NewFromInt(100)) || !stored.Coin.Equal(decimal.NewFromInt(50)) {
				t.Fatal("invalid input mutated the account")
			}
		})
	}
}

func TestAdjustBalanceUserNotFound(t *testing.T) {
	svc := NewBalanceService(&fakeTx{}, newFakeUserStore(), nil)
	_, err := svc.AdjustBalance(context.Background(), "admin-1", "ghost", strPtr("10"), nil)
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// 余额写入和审计行必须分组进同一个事务，审计写失败时整个调整失败回滚
func TestAdjustBalanceWritesAuditInSameTx(t *testing.T) {
	users := newFakeUserStore(balanceUser())
	audits := &fakeAuditStore{}
	tx := &fakeTx{}
	svc := NewBalanceService(tx, users, audits)

	if _, err := svc.AdjustBalance(context.Background(), "admin-1", "alice", strPtr("10"), nil); err != nil {
		t.Fatalf("AdjustBalance err: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", tx.calls)
	}
	if len(audits.messages) != 1 {
		t.Fatal("expected audit row inside the transaction")
	}

	down := &fakeAuditStore{createErr: errStoreDown}
	svc = NewBalanceService(&fakeTx{}, newFakeUserStore(balanceUser()), down)
	if _, err := svc.AdjustBalance(context.Background(), "admin-1", "alice", strPtr("10"), nil); !errors.Is(err, errStoreDown) {
		t.Fatalf("audit write failure must fail the adjustment, got %v", err)
	}
}

func TestAdjustBalanceAcceptsZero(t *testing.T) {
	users := newFakeUserStore(balanceUser())
	svc := NewBalanceService(&fakeTx{}, users, nil)

	result, err := svc.AdjustBalance(context.Background(), "admin-1", "alice", strPtr("0"), strPtr("0"))
	if err != nil {
		t.Fatalf("AdjustBalance err: %v", err)
	}
	if !result.Saldo.IsZero() || !result.Coin.IsZero() {
		t.Fatalf("expected zero balances, got saldo=%s coin=%s", result.Saldo, result.Coin)
	}
}
