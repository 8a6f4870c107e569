package model

import (
	"time"
)

// OTP 默认用途，日志行未填写 aktifitas 时回退到该值
const DefaultOtpAktifitas = "Reset Password"

// OtpLog OTP 日志表
// 只追加，不修改（used 标记除外），按手机号弱关联用户
//
// 【重要】used 一旦置为 true 不允许复位，行仅在"未过期且未使用"时视为活跃
type OtpLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nomor     string    `gorm:"type:varchar(20);index;not null" json:"nomor"`
	OtpCode   string    `gorm:"type:varchar(10);not null" json:"otpCode"`
	Aktifitas string    `gorm:"type:varchar(64)" json:"aktifitas"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (OtpLog) TableName() string {
	return "otp_log"
}

// IsActive 判断日志行在 now 时刻是否活跃
func (o *OtpLog) IsActive(now time.Time) bool {
	return !o.Used && o.ExpiresAt.After(now)
}
