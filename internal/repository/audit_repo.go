package repository

import (
	"context"

	"adminpanel/internal/model"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, msg *model.AuditMessage) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(msg).Error
}

func (r *AuditRepository) GetPending(ctx context.Context, limit int) ([]*model.AuditMessage, error) {
	var messages []*model.AuditMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", model.AuditStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *AuditRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.AuditMessage{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *AuditRepository) IncrementRetryCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.AuditMessage{}).
		Where("id = ?", id).
		Update("retry_count", gorm.Expr("retry_count + 1")).Error
}

func (r *AuditRepository) MarkAsFailed(ctx context.Context, id int64) error {
	return r.UpdateStatus(ctx, id, model.AuditStatusFailed)
}
