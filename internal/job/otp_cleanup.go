package job

import (
	"context"
	"log"
	"time"

	"adminpanel/internal/config"
	"adminpanel/internal/repository"

	"gorm.io/gorm"
)

// OtpCleanupJob OTP 日志清理任务
// 按保留期删除过老的日志行，未到期的行（包括活跃 OTP）不受影响
type OtpCleanupJob struct {
	db        *gorm.DB
	otpRepo   *repository.OtpRepository
	cfg       *config.Config
	stopCh    chan struct{}
	interval  time.Duration
	retention time.Duration
}

func NewOtpCleanupJob(db *gorm.DB, cfg *config.Config) *OtpCleanupJob {
	retentionDays := cfg.Business.OtpRetentionDays
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &OtpCleanupJob{
		db:        db,
		otpRepo:   repository.NewOtpRepository(db),
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		interval:  10 * time.Minute,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func (j *OtpCleanupJob) Start(ctx context.Context) {
	log.Println("[OtpCleanupJob] OTP 日志清理任务启动")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[OtpCleanupJob] 收到停止信号，任务退出")
			return
		case <-j.stopCh:
			log.Println("[OtpCleanupJob] 任务停止")
			return
		case <-ticker.C:
			j.cleanupExpiredLogs(ctx)
		}
	}
}

func (j *OtpCleanupJob) Stop() {
	close(j.stopCh)
}

func (j *OtpCleanupJob) cleanupExpiredLogs(ctx context.Context) {
	before := time.Now().Add(-j.retention)

	deleted, err := j.otpRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		log.Printf("[OtpCleanupJob] 清理日志失败: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("[OtpCleanupJob] 本次清理 %d 条过期日志", deleted)
	}
}
