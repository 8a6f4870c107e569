package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User 用户表
// 后台管理的核心数据：余额、coin、H2H 验证状态，以及旧版 OTP 内嵌字段
type User struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Fullname   string          `gorm:"type:varchar(128);not null" json:"fullname"`
	Email      string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	Nomor      string          `gorm:"type:varchar(20);index" json:"nomor"` // 手机号，OTP 日志按此关联
	Role       string          `gorm:"type:varchar(20);not null;default:member" json:"role"`
	Password   string          `gorm:"type:varchar(255);not null" json:"-"` // 永不返回给调用方
	Saldo      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"saldo"`
	Coin       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"coin"`
	IsVerified bool            `gorm:"not null;default:false" json:"isVerified"`

	// 旧版 OTP 内嵌字段（OTP 日志表上线前的存量数据，迁移完成前仍然是权威来源）
	OtpCode        *string    `gorm:"type:varchar(10)" json:"otpCode,omitempty"`
	OtpCodeExpired *time.Time `json:"otpCodeExpired,omitempty"`
	Aktifitas      *string    `gorm:"type:varchar(64)" json:"aktifitas,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

// HasEmbeddedOtp 内嵌字段是否同时存在验证码和过期时间
func (u *User) HasEmbeddedOtp() bool {
	return u.OtpCode != nil && *u.OtpCode != "" && u.OtpCodeExpired != nil
}
