package service

import (
	"context"
	"time"

	"adminpanel/internal/model"
)

// 服务层依赖的存储接口，由 internal/repository 的 gorm 实现提供
// 约定：实体不存在返回各自的哨兵错误（或 nil,nil），存储故障返回原始错误，
// OTP 读写路径依赖这个区别决定降级还是报错

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ExistsOtherByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsOtherByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, username string) error
	ListAll(ctx context.Context) ([]*model.User, error)
	ClearOtpFields(ctx context.Context, username string) error
}

type OtpStore interface {
	FindActiveByNomor(ctx context.Context, nomor string, now time.Time) (*model.OtpLog, error)
	FindAllByNomor(ctx context.Context, nomor string, limit int) ([]*model.OtpLog, error)
	MarkUsedByNomor(ctx context.Context, nomor string, now time.Time) error
}

type HistoryStore interface {
	GetDeposit(ctx context.Context, userID int64, trxID string) (*model.DepositHistory, error)
	UpdateDepositStatus(ctx context.Context, userID int64, trxID string, status string) error
	GetOrder(ctx context.Context, userID int64, trxID string) (*model.OrderHistory, error)
	UpdateOrder(ctx context.Context, userID int64, trxID string, status, sn string) error
}

type AuditStore interface {
	Create(ctx context.Context, msg *model.AuditMessage) error
}

// TxRunner 把主写入和它的审计 outbox 行分组进同一个数据库事务
// （repository.TxManager 实现；跨存储的操作不在此列，见 OTP 清除）
type TxRunner interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}
