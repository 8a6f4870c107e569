package repository

import (
	"context"
	"errors"

	"adminpanel/internal/model"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user tidak ditemukan")
	ErrDepositNotFound = errors.New("transaksi deposit tidak ditemukan")
	ErrOrderNotFound   = errors.New("transaksi order tidak ditemukan")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ExistsOtherByUsername 检查用户名是否已被其他用户占用（改名时排除自己）
func (r *UserRepository) ExistsOtherByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsOtherByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(user).Error
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	result := r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAll 返回全部用户（密码字段通过 json:"-" 排除，不在查询层处理）
func (r *UserRepository) ListAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// ClearOtpFields 无条件清空内嵌 OTP 三个字段，不关心当前是否过期
// 三个字段本就是 NULL 时 MySQL 影响行数为 0，不能据此判定用户不存在，
// 存在性由调用方先读校验
func (r *UserRepository) ClearOtpFields(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"otp_code":         nil,
			"otp_code_expired": nil,
			"aktifitas":        nil,
		}).Error
}
