package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 常见状态值，仅作参考：后台改单接口不做枚举校验，状态按调用方原文透传
const (
	TrxStatusPending = "pending"
	TrxStatusSuccess = "success"
	TrxStatusFailed  = "failed"
)

// DepositHistory 充值记录表
// 归属唯一用户，trx_id 在单个用户的列表内唯一
type DepositHistory struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"index:idx_deposit_user_trx,unique;not null" json:"user_id"`
	TrxID     string          `gorm:"type:varchar(64);index:idx_deposit_user_trx,unique;not null" json:"trx_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Method    string          `gorm:"type:varchar(32)" json:"method"`
	Status    string          `gorm:"type:varchar(20);index;not null" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DepositHistory) TableName() string {
	return "deposit_history"
}

// OrderHistory 订单记录表
// 比充值多一个 sn（结算凭证），改单时可选更新
type OrderHistory struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"index:idx_order_user_trx,unique;not null" json:"user_id"`
	TrxID     string          `gorm:"type:varchar(64);index:idx_order_user_trx,unique;not null" json:"trx_id"`
	Produk    string          `gorm:"type:varchar(64)" json:"produk"`
	Target    string          `gorm:"type:varchar(64)" json:"target"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status    string          `gorm:"type:varchar(20);index;not null" json:"status"`
	Sn        string          `gorm:"type:varchar(255)" json:"sn"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OrderHistory) TableName() string {
	return "order_history"
}
