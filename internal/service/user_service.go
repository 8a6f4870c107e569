package service

import (
	"context"
	"errors"
	"log"

	"adminpanel/internal/model"
)

var (
	ErrAlreadyVerified = errors.New("user sudah terverifikasi sebelumnya")
	ErrUsernameTaken   = errors.New("username baru sudah digunakan oleh user lain")
	ErrEmailTaken      = errors.New("email sudah digunakan oleh user lain")
	ErrPrimaryAdmin    = errors.New("tidak dapat menghapus admin utama")
)

type UserService struct {
	users        UserStore
	audits       AuditStore
	primaryAdmin string // 不可删除的主管理员用户名
}

func NewUserService(users UserStore, audits AuditStore, primaryAdmin string) *UserService {
	return &UserService{users: users, audits: audits, primaryAdmin: primaryAdmin}
}

// VerifyAccount 开通 H2H 验证，单向操作
// 已验证用户再次开通报 ErrAlreadyVerified，不做静默幂等
func (s *UserService) VerifyAccount(ctx context.Context, adminID, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	user.IsVerified = true
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	log.Printf("[ADMIN] 用户 %s 通过验证，操作人 %s", username, adminID)

	recordAudit(ctx, s.audits, model.AuditActionVerifyUser, adminID, map[string]interface{}{
		"username": username,
	})

	return nil
}

// ToggleVerify 双向开关验证状态，返回新状态
func (s *UserService) ToggleVerify(ctx context.Context, adminID, username string) (bool, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	user.IsVerified = !user.IsVerified
	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}

	log.Printf("[ADMIN] 用户 %s 验证状态切换为 %v，操作人 %s", username, user.IsVerified, adminID)

	recordAudit(ctx, s.audits, model.AuditActionToggleVerify, adminID, map[string]interface{}{
		"username":   username,
		"isVerified": user.IsVerified,
	})

	return user.IsVerified, nil
}

type UpdateUserRequest struct {
	Username    string
	NewUsername string
	Fullname    string
	Email       string
	Nomor       string
	Role        string
}

// UpdateUser 更新用户资料
// 用户名和邮箱改动时重查唯一性；nomor 传空保留旧值
func (s *UserService) UpdateUser(ctx context.Context, adminID string, req *UpdateUserRequest) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if req.NewUsername != user.Username {
		taken, err := s.users.ExistsOtherByUsername(ctx, req.NewUsername, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}

	if req.Email != user.Email {
		taken, err := s.users.ExistsOtherByEmail(ctx, req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	user.Fullname = req.Fullname
	user.Username = req.NewUsername
	user.Email = req.Email
	if req.Nomor != "" {
		user.Nomor = req.Nomor
	}
	user.Role = req.Role

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[ADMIN] 用户 %s 资料更新，操作人 %s", req.Username, adminID)

	recordAudit(ctx, s.audits, model.AuditActionUpdateUser, adminID, map[string]interface{}{
		"username":     req.Username,
		"new_username": user.Username,
	})

	return user, nil
}

// DeleteUser 删除用户，主管理员受保护不可删除
func (s *UserService) DeleteUser(ctx context.Context, adminID, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.Username == s.primaryAdmin {
		return ErrPrimaryAdmin
	}

	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}

	log.Printf("[ADMIN] 用户 %s 被删除，操作人 %s", username, adminID)

	recordAudit(ctx, s.audits, model.AuditActionDeleteUser, adminID, map[string]interface{}{
		"username": username,
	})

	return nil
}

// ListUsers 返回全部用户（密码字段在序列化层排除）
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.ListAll(ctx)
}
