package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 把主写入和审计 outbox 行包进同一个 gorm 事务
// 事务句柄通过 context 下发，各仓储用 dbFrom 自动取到，
// 接口签名不用带 *gorm.DB
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom 优先使用 context 里的事务句柄，不在事务中则用默认连接
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db
}
