package model

import (
	"time"
)

const (
	AuditStatusPending = "PENDING"
	AuditStatusSent    = "SENT"
	AuditStatusFailed  = "FAILED"
)

// 审计动作常量，写入审计消息的 action 字段
const (
	AuditActionAdjustBalance = "ADJUST_BALANCE"
	AuditActionDepositStatus = "DEPOSIT_STATUS"
	AuditActionOrderStatus   = "ORDER_STATUS"
	AuditActionVerifyUser    = "VERIFY_USER"
	AuditActionToggleVerify  = "TOGGLE_VERIFY"
	AuditActionUpdateUser    = "UPDATE_USER"
	AuditActionDeleteUser    = "DELETE_USER"
	AuditActionClearOtp      = "CLEAR_OTP"
)

// AuditMessage 审计消息表（outbox 模式）
// 管理端每次写操作在同一事务里落一条审计行，后台任务异步投递到 Kafka
//
// 【重要】审计行只追加；投递失败累加 retry_count，超限后标记 FAILED 人工处理
type AuditMessage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuditNo    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"audit_no"`
	Action     string    `gorm:"type:varchar(32);index;not null" json:"action"`
	AdminID    string    `gorm:"type:varchar(64);index;not null" json:"admin_id"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	Status     string    `gorm:"type:varchar(20);index;not null;default:PENDING" json:"status"`
	RetryCount int       `gorm:"not null;default:0" json:"retry_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AuditMessage) TableName() string {
	return "audit_message"
}
