package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"adminpanel/internal/model"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("nilai saldo/coin tidak valid")

type BalanceService struct {
	tx     TxRunner
	users  UserStore
	audits AuditStore
}

func NewBalanceService(tx TxRunner, users UserStore, audits AuditStore) *BalanceService {
	return &BalanceService{tx: tx, users: users, audits: audits}
}

type AdjustBalanceResult struct {
	Username string          `json:"username"`
	Saldo    decimal.Decimal `json:"saldo"`
	Coin     decimal.Decimal `json:"coin"`
}

// AdjustBalance 管理员直接改写用户余额/coin
// 两个字段都可选，缺省表示不动；先整体校验再落库，校验失败不产生部分写入
// 并发调整不加锁，后写覆盖先写
func (s *BalanceService) AdjustBalance(ctx context.Context, adminID, username string, newSaldo, newCoin *string) (*AdjustBalanceResult, error) {
	saldoValue, err := parseAmount(newSaldo)
	if err != nil {
		return nil, fmt.Errorf("%w: saldo", ErrInvalidAmount)
	}
	coinValue, err := parseAmount(newCoin)
	if err != nil {
		return nil, fmt.Errorf("%w: coin", ErrInvalidAmount)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if saldoValue != nil {
		user.Saldo = *saldoValue
	}
	if coinValue != nil {
		user.Coin = *coinValue
	}

	// 余额写入和审计行落在同一个事务
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.users.Save(ctx, user); err != nil {
			return err
		}
		return createAudit(ctx, s.audits, model.AuditActionAdjustBalance, adminID, map[string]interface{}{
			"username": user.Username,
			"saldo":    user.Saldo,
			"coin":     user.Coin,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ADMIN] 用户 %s 的 saldo/coin 由管理员 %s 更新", user.Username, adminID)

	return &AdjustBalanceResult{
		Username: user.Username,
		Saldo:    user.Saldo,
		Coin:     user.Coin,
	}, nil
}

// parseAmount 解析可选的金额输入；nil 原样返回，非法或负数报错
func parseAmount(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	if value.IsNegative() {
		return nil, errors.New("nilai negatif")
	}
	return &value, nil
}
