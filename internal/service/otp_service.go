package service

import (
	"context"
	"log"
	"sort"
	"time"

	"adminpanel/internal/model"
)

// OTP 状态的两个数据源：
//   1. user 表上的内嵌字段（旧版格式，日志表上线前的存量数据）
//   2. otp_log 日志表（新版，按手机号关联）
// 内嵌字段优先于日志表，迁移完成前它仍是权威来源；
// 日志表查询失败时降级为只用内嵌数据，可用性优先于一致性

// 内嵌字段没有记录创建时间，估算为过期时间前推一个发放窗口（近似值，非事实）
const embeddedOtpIssueWindow = 5 * time.Minute

// 历史记录最多返回 50 条日志行（外加至多一条内嵌条目）
const otpHistoryLimit = 50

type OtpService struct {
	users  UserStore
	otps   OtpStore
	audits AuditStore
}

func NewOtpService(users UserStore, otps OtpStore, audits AuditStore) *OtpService {
	return &OtpService{users: users, otps: otps, audits: audits}
}

type OtpStatusView struct {
	HasOtp         bool       `json:"hasOtp"`
	OtpCode        string     `json:"otpCode,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	Aktifitas      string     `json:"aktifitas,omitempty"`
	WaktuSisaMenit int        `json:"waktuSisaMenit,omitempty"`
	Nomor          string     `json:"nomor"`
	Fullname       string     `json:"fullname"`
	Username       string     `json:"username"`
}

type OtpHistoryEntry struct {
	OtpCode        string    `json:"otpCode"`
	Aktifitas      string    `json:"aktifitas"`
	Nomor          string    `json:"nomor"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	IsExpired      bool      `json:"isExpired"`
	WaktuSisaMenit *int      `json:"waktuSisaMenit"` // 已过期时为 null
}

// GetCurrentOtpStatus 合并两个数据源，返回当前活跃 OTP 的统一视图
// 整个操作只取一次 now，所有过期判断都基于同一时刻
func (s *OtpService) GetCurrentOtpStatus(ctx context.Context, username string) (*OtpStatusView, error) {
	now := time.Now()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// 内嵌字段优先：验证码和过期时间都在且未过期，直接返回
	if user.HasEmbeddedOtp() && user.OtpCodeExpired.After(now) {
		return &OtpStatusView{
			HasOtp:         true,
			OtpCode:        *user.OtpCode,
			ExpiresAt:      user.OtpCodeExpired,
			Aktifitas:      aktifitasOrDefault(derefString(user.Aktifitas)),
			WaktuSisaMenit: remainingMinutes(now, *user.OtpCodeExpired),
			Nomor:          user.Nomor,
			Fullname:       user.Fullname,
			Username:       user.Username,
		}, nil
	}

	active, err := s.otps.FindActiveByNomor(ctx, user.Nomor, now)
	if err != nil {
		// 日志表不可用不算失败，回落到"无活跃 OTP"
		log.Printf("[OTP] 日志表查询失败，降级为内嵌字段数据: nomor=%s, err=%v", user.Nomor, err)
		active = nil
	}

	if active != nil {
		expiresAt := active.ExpiresAt
		return &OtpStatusView{
			HasOtp:         true,
			OtpCode:        active.OtpCode,
			ExpiresAt:      &expiresAt,
			Aktifitas:      aktifitasOrDefault(active.Aktifitas),
			WaktuSisaMenit: remainingMinutes(now, active.ExpiresAt),
			Nomor:          active.Nomor,
			Fullname:       user.Fullname,
			Username:       user.Username,
		}, nil
	}

	return &OtpStatusView{
		HasOtp:   false,
		Nomor:    user.Nomor,
		Fullname: user.Fullname,
		Username: user.Username,
	}, nil
}

// GetOtpHistory 合并内嵌条目和日志行为一条按创建时间倒序的时间线
// 内嵌条目不论是否过期都会出现；日志表故障时只返回内嵌数据
func (s *OtpService) GetOtpHistory(ctx context.Context, username string) ([]*OtpHistoryEntry, error) {
	now := time.Now()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	history := make([]*OtpHistoryEntry, 0, otpHistoryLimit+1)

	if user.HasEmbeddedOtp() {
		expiresAt := *user.OtpCodeExpired
		entry := &OtpHistoryEntry{
			OtpCode:   *user.OtpCode,
			Aktifitas: aktifitasOrDefault(derefString(user.Aktifitas)),
			Nomor:     user.Nomor,
			CreatedAt: expiresAt.Add(-embeddedOtpIssueWindow), // 估算的创建时间
			ExpiresAt: expiresAt,
			IsExpired: now.After(expiresAt),
		}
		if !entry.IsExpired {
			minutes := remainingMinutes(now, expiresAt)
			entry.WaktuSisaMenit = &minutes
		}
		history = append(history, entry)
	}

	logs, err := s.otps.FindAllByNomor(ctx, user.Nomor, otpHistoryLimit)
	if err != nil {
		log.Printf("[OTP] 日志表查询失败，历史只含内嵌数据: nomor=%s, err=%v", user.Nomor, err)
		logs = nil
	}

	for _, row := range logs {
		entry := &OtpHistoryEntry{
			OtpCode:   row.OtpCode,
			Aktifitas: aktifitasOrDefault(row.Aktifitas),
			Nomor:     row.Nomor,
			CreatedAt: row.CreatedAt,
			ExpiresAt: row.ExpiresAt,
			IsExpired: now.After(row.ExpiresAt),
		}
		if !entry.IsExpired {
			minutes := remainingMinutes(now, row.ExpiresAt)
			entry.WaktuSisaMenit = &minutes
		}
		history = append(history, entry)
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})

	return history, nil
}

// ClearActiveOtp 跨两个数据源作废 OTP
// 内嵌字段无条件清空（主存储，失败即失败）；
// 日志行尽力标记 used，日志表不可用时接受只清一半的结果
func (s *OtpService) ClearActiveOtp(ctx context.Context, adminID, username string) error {
	now := time.Now()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.users.ClearOtpFields(ctx, username); err != nil {
		return err
	}

	if err := s.otps.MarkUsedByNomor(ctx, user.Nomor, now); err != nil {
		log.Printf("[OTP] 日志表标记失败，仅清空内嵌字段: nomor=%s, err=%v", user.Nomor, err)
	}

	log.Printf("[ADMIN] 用户 %s 的活跃 OTP 由管理员 %s 清除", username, adminID)

	recordAudit(ctx, s.audits, model.AuditActionClearOtp, adminID, map[string]interface{}{
		"username": username,
		"nomor":    user.Nomor,
	})

	return nil
}

// remainingMinutes 剩余分钟数，向上取整；调用方保证 expiresAt 在 now 之后
func remainingMinutes(now, expiresAt time.Time) int {
	d := expiresAt.Sub(now)
	return int((d + time.Minute - 1) / time.Minute)
}

func aktifitasOrDefault(aktifitas string) string {
	if aktifitas == "" {
		return model.DefaultOtpAktifitas
	}
	return aktifitas
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
