package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"adminpanel/internal/config"
	"adminpanel/internal/provider"
	"adminpanel/internal/repository"
	"adminpanel/internal/service"
	"adminpanel/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	balanceService  *service.BalanceService
	trxService      *service.TransactionService
	otpService      *service.OtpService
	userService     *service.UserService
	providerService *service.ProviderService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	txm := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	atlantic := provider.NewClient(&cfg.Atlantic)

	return &Handler{
		balanceService:  service.NewBalanceService(txm, userRepo, auditRepo),
		trxService:      service.NewTransactionService(txm, userRepo, historyRepo, auditRepo),
		otpService:      service.NewOtpService(userRepo, otpRepo, auditRepo),
		userService:     service.NewUserService(userRepo, auditRepo, cfg.Business.PrimaryAdmin),
		providerService: service.NewProviderService(atlantic, rdb, cfg.Business.ProfileCacheSeconds),
	}
}

// writeServiceError 服务层错误到响应的统一映射
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrDepositNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPrimaryAdmin):
		response.ParamError(c, err.Error())
	default:
		response.ErrorDetail(c, http.StatusInternalServerError, "Terjadi kesalahan pada server", err.Error())
	}
}

// numberString 把可选的 json.Number 字段归一成 *string，缺省返回 nil
// json.Number 原样保留数字文本，大整数不经过 float64
func numberString(n *json.Number) *string {
	if n == nil {
		return nil
	}
	s := n.String()
	return &s
}

// ============================================================
// 余额调整
// ============================================================

// UpdateBalanceRequest 余额调整请求，newSaldo/newCoin 均可选
// json.Number 同时接受数字和带引号的数字字符串
type UpdateBalanceRequest struct {
	Username string       `json:"username" binding:"required"`
	NewSaldo *json.Number `json:"newSaldo"`
	NewCoin  *json.Number `json:"newCoin"`
}

// UpdateBalance 管理员改写用户余额/coin
// POST /api/v1/admin/user/update-balance
func (h *Handler) UpdateBalance(c *gin.Context) {
	var req UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Username wajib diisi dan saldo/coin harus berupa angka.")
		return
	}

	result, err := h.balanceService.AdjustBalance(c.Request.Context(), adminID(c),
		req.Username, numberString(req.NewSaldo), numberString(req.NewCoin))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c,
		fmt.Sprintf("Data saldo dan coin untuk user '%s' berhasil diperbarui.", result.Username),
		result)
}

// ============================================================
// 充值 / 订单改单
// ============================================================

type UpdateDepositStatusRequest struct {
	UserID    int64  `json:"userId" binding:"required"`
	DepositID string `json:"depositId" binding:"required"`
	NewStatus string `json:"newStatus" binding:"required"`
}

// UpdateDepositStatus 覆盖充值记录状态
// POST /api/v1/admin/update-deposit-status
func (h *Handler) UpdateDepositStatus(c *gin.Context) {
	var req UpdateDepositStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Parameter userId, depositId, dan newStatus wajib diisi.")
		return
	}

	err := h.trxService.SetDepositStatus(c.Request.Context(), adminID(c),
		req.UserID, req.DepositID, req.NewStatus)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c,
		fmt.Sprintf("Status deposit dengan ID %s berhasil diubah menjadi %s.", req.DepositID, req.NewStatus),
		nil)
}

type UpdateOrderStatusRequest struct {
	UserID    int64   `json:"userId" binding:"required"`
	OrderID   string  `json:"orderId" binding:"required"`
	NewStatus string  `json:"newStatus" binding:"required"`
	NewSn     *string `json:"newSn"` // nil=保留原值，空串=清空
}

// UpdateOrderStatus 覆盖订单记录状态，sn 可选
// POST /api/v1/admin/update-order-status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Parameter userId, orderId, dan newStatus wajib diisi.")
		return
	}

	err := h.trxService.SetOrderStatus(c.Request.Context(), adminID(c),
		req.UserID, req.OrderID, req.NewStatus, req.NewSn)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c,
		fmt.Sprintf("Status order dengan ID %s berhasil diubah.", req.OrderID),
		nil)
}

// ============================================================
// OTP 管理
// ============================================================

// OtpStatus 查询当前活跃 OTP
// GET /api/v1/admin/user/otp-status?username=xxx
func (h *Handler) OtpStatus(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.ParamError(c, "Parameter username wajib diisi")
		return
	}

	view, err := h.otpService.GetCurrentOtpStatus(c.Request.Context(), username)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	message := "Tidak ada OTP aktif"
	if view.HasOtp {
		message = "OTP aktif ditemukan"
	}
	response.Success(c, message, view)
}

// OtpHistory 查询 OTP 时间线
// GET /api/v1/admin/user/otp-history?username=xxx
func (h *Handler) OtpHistory(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.ParamError(c, "Parameter username wajib diisi")
		return
	}

	history, err := h.otpService.GetOtpHistory(c.Request.Context(), username)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, "Riwayat OTP berhasil diambil", history)
}

// ClearOtp 清除活跃 OTP（两个数据源）
// DELETE /api/v1/admin/user/clear-otp
func (h *Handler) ClearOtp(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Parameter username wajib diisi")
		return
	}

	if err := h.otpService.ClearActiveOtp(c.Request.Context(), adminID(c), req.Username); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, "OTP aktif berhasil dihapus", nil)
}

// ============================================================
// 用户管理
// ============================================================

// VerifyUser 开通 H2H 验证（单向）
// GET /api/v1/admin/verify-user?username=xxx
func (h *Handler) VerifyUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.ParamError(c, "Parameter username wajib diisi")
		return
	}

	if err := h.userService.VerifyAccount(c.Request.Context(), adminID(c), username); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, fmt.Sprintf("User %s berhasil diverifikasi", username), nil)
}

// ToggleVerify 双向切换验证状态
// POST /api/v1/admin/user/toggle-verify
func (h *Handler) ToggleVerify(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Username wajib diisi")
		return
	}

	verified, err := h.userService.ToggleVerify(c.Request.Context(), adminID(c), req.Username)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	status := "dinonaktifkan"
	if verified {
		status = "diaktifkan"
	}
	response.Success(c,
		fmt.Sprintf("Verifikasi H2H user %s berhasil %s", req.Username, status),
		gin.H{"username": req.Username, "isVerified": verified})
}

type UpdateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Fullname    string `json:"fullname" binding:"required"`
	NewUsername string `json:"newUsername" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Nomor       string `json:"nomor"`
	Role        string `json:"role" binding:"required"`
}

// UpdateUser 更新用户资料
// POST /api/v1/admin/user/update
func (h *Handler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Semua field wajib diisi (kecuali nomor telepon)")
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), adminID(c), &service.UpdateUserRequest{
		Username:    req.Username,
		NewUsername: req.NewUsername,
		Fullname:    req.Fullname,
		Email:       req.Email,
		Nomor:       req.Nomor,
		Role:        req.Role,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c,
		fmt.Sprintf("Data user %s berhasil diperbarui", req.Username),
		gin.H{
			"username": user.Username,
			"fullname": user.Fullname,
			"email":    user.Email,
			"nomor":    user.Nomor,
			"role":     user.Role,
		})
}

// DeleteUser 删除用户，主管理员受保护
// DELETE /api/v1/admin/user/delete
func (h *Handler) DeleteUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Username wajib diisi")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), adminID(c), req.Username); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, fmt.Sprintf("User %s berhasil dihapus dari database", req.Username), nil)
}

// ListUsers 全部用户列表（不含密码）
// GET /api/v1/admin/data/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, "success", users)
}

// ============================================================
// 上游供应商代理（只读）
// ============================================================

// AtlanticProfile 拉取供应商账号信息（带缓存）
// GET /api/v1/admin/atlantic/profile
func (h *Handler) AtlanticProfile(c *gin.Context) {
	result, err := h.providerService.GetProfile(c.Request.Context())
	if err != nil {
		response.ErrorDetail(c, http.StatusInternalServerError,
			"Gagal mengambil data dari Atlantic API", err.Error())
		return
	}

	response.Success(c, result.Info, result.Profile)
}

// CheckOrder 查询上游交易状态
// GET /api/v1/admin/check-order?id=xxx&type=prabayar
func (h *Handler) CheckOrder(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		response.ParamError(c, "ID transaksi tidak boleh kosong")
		return
	}
	trxType := c.DefaultQuery("type", "prabayar")

	result, err := h.providerService.CheckOrder(c.Request.Context(), id, trxType)
	if err != nil {
		if errors.Is(err, provider.ErrTrxNotFound) {
			response.NotFound(c, "Transaksi tidak ditemukan atau gagal")
			return
		}
		response.ErrorDetail(c, http.StatusInternalServerError,
			"Gagal memproses permintaan", err.Error())
		return
	}

	response.Success(c, "Status transaksi berhasil diambil", result)
}
