package service

import (
	"context"
	"encoding/json"
	"log"

	"adminpanel/internal/model"
	"adminpanel/pkg/idgen"
)

// createAudit 落一条审计 outbox 行，由后台任务异步投递 Kafka
// 在 TxRunner 事务里调用时和主写入同生共死
func createAudit(ctx context.Context, audits AuditStore, action, adminID string, detail map[string]interface{}) error {
	if audits == nil {
		return nil
	}

	payloadBytes, _ := json.Marshal(detail)

	return audits.Create(ctx, &model.AuditMessage{
		AuditNo: idgen.GenerateAuditNo(),
		Action:  action,
		AdminID: adminID,
		Payload: string(payloadBytes),
		Status:  model.AuditStatusPending,
	})
}

// recordAudit 尽力而为版本，写失败只记日志不影响主操作
// 余额和改单走 createAudit + TxRunner，其余路径用这个
func recordAudit(ctx context.Context, audits AuditStore, action, adminID string, detail map[string]interface{}) {
	if err := createAudit(ctx, audits, action, adminID, detail); err != nil {
		log.Printf("[AUDIT] 审计消息写入失败: action=%s, admin=%s, err=%v", action, adminID, err)
	}
}
