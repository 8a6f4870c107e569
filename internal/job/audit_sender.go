package job

import (
	"context"
	"log"
	"time"

	"adminpanel/internal/config"
	"adminpanel/internal/infrastructure/mq"
	"adminpanel/internal/model"
	"adminpanel/internal/repository"

	"gorm.io/gorm"
)

// AuditSender 审计消息投递任务
// 周期性扫描 PENDING 的审计行投递到 Kafka；重试超限标记 FAILED 留待人工处理
type AuditSender struct {
	db        *gorm.DB
	auditRepo *repository.AuditRepository
	cfg       *config.Config
	stopCh    chan struct{}
	interval  time.Duration
	batchSize int
}

func NewAuditSender(db *gorm.DB, cfg *config.Config) *AuditSender {
	return &AuditSender{
		db:        db,
		auditRepo: repository.NewAuditRepository(db),
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		interval:  100 * time.Millisecond,
		batchSize: 100,
	}
}

func (s *AuditSender) Start(ctx context.Context) {
	log.Println("[AuditSender] 审计投递任务启动")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[AuditSender] 收到停止信号，任务退出")
			return
		case <-s.stopCh:
			log.Println("[AuditSender] 任务停止")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *AuditSender) Stop() {
	close(s.stopCh)
}

func (s *AuditSender) processPendingMessages(ctx context.Context) {
	messages, err := s.auditRepo.GetPending(ctx, s.batchSize)
	if err != nil {
		log.Printf("[AuditSender] 查询审计消息失败: %v", err)
		return
	}

	if len(messages) == 0 {
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *AuditSender) sendMessage(ctx context.Context, msg *model.AuditMessage) {
	err := mq.SendMessage(s.cfg.Kafka.Topic.AdminAudit, msg.AuditNo, msg.Payload)

	if err == nil {
		if updateErr := s.auditRepo.UpdateStatus(ctx, msg.ID, model.AuditStatusSent); updateErr != nil {
			log.Printf("[AuditSender] 更新消息状态失败: id=%d, err=%v", msg.ID, updateErr)
		} else {
			log.Printf("[AuditSender] 审计消息投递成功: id=%d, action=%s, admin=%s", msg.ID, msg.Action, msg.AdminID)
		}
		return
	}

	log.Printf("[AuditSender] 审计消息投递失败: id=%d, err=%v", msg.ID, err)

	if err := s.auditRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		log.Printf("[AuditSender] 增加重试次数失败: id=%d, err=%v", msg.ID, err)
	}

	if msg.RetryCount+1 >= s.cfg.Business.MaxRetryCount {
		if err := s.auditRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			log.Printf("[AuditSender] 标记消息失败状态失败: id=%d, err=%v", msg.ID, err)
		} else {
			log.Printf("[AuditSender] 消息超过最大重试次数，标记为失败: id=%d", msg.ID)
		}
	}
}
