package repository

import (
	"context"
	"errors"

	"adminpanel/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) GetDeposit(ctx context.Context, userID int64, trxID string) (*model.DepositHistory, error) {
	var deposit model.DepositHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND trx_id = ?", userID, trxID).
		First(&deposit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// UpdateDepositStatus 无条件覆盖状态，不校验旧状态（后台改单是人工兜底工具）
// 存在性由调用方先读校验：重复提交同一状态时 MySQL 影响行数为 0，不能据此判定不存在
func (r *HistoryRepository) UpdateDepositStatus(ctx context.Context, userID int64, trxID string, status string) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Model(&model.DepositHistory{}).
		Where("user_id = ? AND trx_id = ?", userID, trxID).
		Update("status", status).Error
}

func (r *HistoryRepository) GetOrder(ctx context.Context, userID int64, trxID string) (*model.OrderHistory, error) {
	var order model.OrderHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND trx_id = ?", userID, trxID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *HistoryRepository) UpdateOrder(ctx context.Context, userID int64, trxID string, status, sn string) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Model(&model.OrderHistory{}).
		Where("user_id = ? AND trx_id = ?", userID, trxID).
		Updates(map[string]interface{}{
			"status": status,
			"sn":     sn,
		}).Error
}
