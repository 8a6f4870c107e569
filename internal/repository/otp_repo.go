package repository

import (
	"context"
	"errors"
	"time"

	"adminpanel/internal/model"

	"gorm.io/gorm"
)

type OtpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) *OtpRepository {
	return &OtpRepository{db: db}
}

// FindActiveByNomor 返回该手机号最新创建的活跃 OTP（未过期且未使用）
// 没有活跃行时返回 (nil, nil)，与存储故障区分开：
// 调用方依赖这个区别决定降级还是报错
func (r *OtpRepository) FindActiveByNomor(ctx context.Context, nomor string, now time.Time) (*model.OtpLog, error) {
	var otp model.OtpLog
	err := r.db.WithContext(ctx).
		Where("nomor = ? AND expires_at > ? AND used = ?", nomor, now, false).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

// FindAllByNomor 按创建时间倒序返回该手机号的日志行，最多 limit 条（不区分状态）
func (r *OtpRepository) FindAllByNomor(ctx context.Context, nomor string, limit int) ([]*model.OtpLog, error) {
	var otps []*model.OtpLog
	err := r.db.WithContext(ctx).
		Where("nomor = ?", nomor).
		Order("created_at DESC").
		Limit(limit).
		Find(&otps).Error
	return otps, err
}

// MarkUsedByNomor 将该手机号当前活跃的日志行全部标记为已使用
// used 单向置位，已过期或已使用的行不受影响
func (r *OtpRepository) MarkUsedByNomor(ctx context.Context, nomor string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.OtpLog{}).
		Where("nomor = ? AND expires_at > ? AND used = ?", nomor, now, false).
		Update("used", true).Error
}

// DeleteOlderThan 删除创建时间早于 before 的日志行，返回删除条数（保留期清理任务用）
func (r *OtpRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.OtpLog{})
	return result.RowsAffected, result.Error
}
