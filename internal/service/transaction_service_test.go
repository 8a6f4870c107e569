package service

import (
	"context"
	"errors"
	"testing"

	"adminpanel/internal/model"
	"adminpanel/internal/repository"
)

func trxFixtures() (*fakeUserStore, *fakeHistoryStore) {
	users := newFakeUserStore(&model.User{ID: 7, Username: "alice"})
	history := newFakeHistoryStore()
	history.deposits[historyKey{7, "dep-1"}] = &model.DepositHistory{UserID: 7, TrxID: "dep-1", Status: "pending"}
	history.orders[historyKey{7, "ord-1"}] = &model.OrderHistory{UserID: 7, TrxID: "ord-1", Status: "pending", Sn: "SN001"}
	return users, history
}

func TestSetDepositStatusOverwrites(t *testing.T) {
	users, history := trxFixtures()
	audits := &fakeAuditStore{}
	svc := NewTransactionService(&fakeTx{}, users, history, audits)

	if err := svc.SetDepositStatus(context.Background(), "admin-1", 7, "dep-1", "success"); err != nil {
		t.Fatalf("SetDepositStatus err: %v", err)
	}

	deposit, _ := history.GetDeposit(context.Background(), 7, "dep-1")
	if deposit.Status != "success" {
		t.Fatalf("status = %s, want success", deposit.Status)
	}
	if len(audits.messages) != 1 || audits.messages[0].Action != model.AuditActionDepositStatus {
		t.Fatal("expected one DEPOSIT_STATUS audit message")
	}
}

// 改单和审计行同一个事务，审计写失败时改单整体失败
func TestSetOrderStatusWritesAuditInSameTx(t *testing.T) {
	users, history := trxFixtures()
	audits := &fakeAuditStore{}
	tx := &fakeTx{}
	svc := NewTransactionService(tx, users, history, audits)

	if err := svc.SetOrderStatus(context.Background(), "admin-1", 7, "ord-1", "success", nil); err != nil {
		t.Fatalf("SetOrderStatus err: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", tx.calls)
	}
	if len(audits.messages) != 1 {
		t.Fatal("expected audit row inside the transaction")
	}

	users, history = trxFixtures()
	svc = NewTransactionService(&fakeTx{}, users, history, &fakeAuditStore{createErr: errStoreDown})
	if err := svc.SetDepositStatus(context.Background(), "admin-1", 7, "dep-1", "success"); !errors.Is(err, errStoreDown) {
		t.Fatalf("audit write failure must fail the status change, got %v", err)
	}
}

func TestSetDepositStatusNotFound(t *testing.T) {
	users, history := trxFixtures()
	svc := NewTransactionService(&fakeTx{}, users, history, nil)

	if err := svc.SetDepositStatus(context.Background(), "admin-1", 99, "dep-1", "success"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("missing user: expected ErrUserNotFound, got %v", err)
	}
	if err := svc.SetDepositStatus(context.Background(), "admin-1", 7, "dep-404", "success"); !errors.Is(err, repository.ErrDepositNotFound) {
		t.Fatalf("missing deposit: expected ErrDepositNotFound, got %v", err)
	}
}

func TestSetOrderStatusPreservesSnWhenAbsent(t *testing.T) {
	users, history := trxFixtures()
	svc := NewTransactionService(&fakeTx{}, users, history, nil)

	if err := svc.SetOrderStatus(context.Background(), "admin-1", 7, "ord-1", "success", nil); err != nil {
		t.Fatalf("SetOrderStatus err: %v", err)
	}

	order, _ := history.GetOrder(context.Background(), 7, "ord-1")
	if order.Status != "success" {
		t.Fatalf("status = %s, want success", order.Status)
	}
	if order.Sn != "SN001" {
		t.Fatalf("sn must be preserved when absent, got %q", order.Sn)
	}
}

func TestSetOrderStatusExplicitEmptySnClears(t *testing.T) {
	users, history := trxFixtures()
	svc := NewTransactionService(&fakeTx{}, users, history, nil)

	// "字段为空"是显式输入，和缺省不同，必须真的清空
	if err := svc.SetOrderStatus(context.Background(), "admin-1", 7, "ord-1", "failed", strPtr("")); err != nil {
		t.Fatalf("SetOrderStatus err: %v", err)
	}

	order, _ := history.GetOrder(context.Background(), 7, "ord-1")
	if order.Sn != "" {
		t.Fatalf("sn must be cleared, got %q", order.Sn)
	}
}

func TestSetOrderStatusReapplySamePairIsIdempotent(t *testing.T) {
	users, history := trxFixtures()
	svc := NewTransactionService(&fakeTx{}, users, history, nil)

	for i := 0; i < 2; i++ {
		if err := svc.SetOrderStatus(context.Background(), "admin-1", 7, "ord-1", "success", strPtr("SN002")); err != nil {
			t.Fatalf("apply %d err: %v", i, err)
		}
	}

	order, _ := history.GetOrder(context.Background(), 7, "ord-1")
	if order.Status != "success" || order.Sn != "SN002" {
		t.Fatalf("unexpected record after re-apply: status=%s sn=%s", order.Status, order.Sn)
	}
}

func TestSetOrderStatusNotFound(t *testing.T) {
	users, history := trxFixtures()
	svc := NewTransactionService(&fakeTx{}, users, history, nil)

	if err := svc.SetOrderStatus(context.Background(), "admin-1", 7, "ord-404", "success", nil); !errors.Is(err, repository.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestSetOrderStatusAcceptsArbitraryStatusText(t *testing.T) {
	users, history := trxFixtures()
	svc := NewTransactionService(&fakeTx{}, users, history, nil)

	// 人工改单工具，状态不做枚举校验
	if err := svc.SetOrderStatus(context.Background(), "admin-1", 7, "ord-1", "refund-manual", nil); err != nil {
		t.Fatalf("SetOrderStatus err: %v", err)
	}
	order, _ := history.GetOrder(context.Background(), 7, "ord-1")
	if order.Status != "refund-manual" {
		t.Fatalf("status = %s, want refund-manual", order.Status)
	}
}
