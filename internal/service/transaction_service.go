package service

import (
	"context"
	"log"

	"adminpanel/internal/model"
)

type TransactionService struct {
	tx      TxRunner
	users   UserStore
	history HistoryStore
	audits  AuditStore
}

func NewTransactionService(tx TxRunner, users UserStore, history HistoryStore, audits AuditStore) *TransactionService {
	return &TransactionService{tx: tx, users: users, history: history, audits: audits}
}

// SetDepositStatus 覆盖一条充值记录的状态
// 状态按调用方原文透传，不做枚举校验（人工改单工具，状态机约束是刻意放开的）
func (s *TransactionService) SetDepositStatus(ctx context.Context, adminID string, userID int64, depositID, newStatus string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	if _, err := s.history.GetDeposit(ctx, userID, depositID); err != nil {
		return err
	}

	// 状态覆盖和审计行同一个事务
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.history.UpdateDepositStatus(ctx, userID, depositID, newStatus); err != nil {
			return err
		}
		return createAudit(ctx, s.audits, model.AuditActionDepositStatus, adminID, map[string]interface{}{
			"user_id":    userID,
			"deposit_id": depositID,
			"status":     newStatus,
		})
	})
	if err != nil {
		return err
	}

	log.Printf("[ADMIN] 充值 %s (user=%d) 状态改为 %s，操作人 %s", depositID, userID, newStatus, adminID)

	return nil
}

// SetOrderStatus 覆盖一条订单记录的状态，sn 可选
// newSn 为 nil 时保留原值（必须先读当前记录），指向空串时按清空处理：
// "字段缺省"和"字段为空"是两种不同输入
func (s *TransactionService) SetOrderStatus(ctx context.Context, adminID string, userID int64, orderID, newStatus string, newSn *string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	order, err := s.history.GetOrder(ctx, userID, orderID)
	if err != nil {
		return err
	}

	sn := order.Sn
	if newSn != nil {
		sn = *newSn
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.history.UpdateOrder(ctx, userID, orderID, newStatus, sn); err != nil {
			return err
		}
		return createAudit(ctx, s.audits, model.AuditActionOrderStatus, adminID, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"status":   newStatus,
			"sn":       sn,
		})
	})
	if err != nil {
		return err
	}

	log.Printf("[ADMIN] 订单 %s (user=%d) 状态改为 %s，操作人 %s", orderID, userID, newStatus, adminID)

	return nil
}
