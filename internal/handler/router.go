package handler

import (
	"adminpanel/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 注册中间件
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	// 创建处理器
	h := NewHandler(db, rdb, cfg)

	// 管理端接口全部挂在同一个组，要求显式的操作人标识
	admin := r.Group("/api/v1/admin")
	admin.Use(AdminAuthMiddleware())
	{
		// 用户管理
		admin.GET("/data/users", h.ListUsers)
		admin.POST("/user/update", h.UpdateUser)
		admin.DELETE("/user/delete", h.DeleteUser)
		admin.GET("/verify-user", h.VerifyUser)
		admin.POST("/user/toggle-verify", h.ToggleVerify)

		// 余额调整
		admin.POST("/user/update-balance", h.UpdateBalance)

		// 交易改单
		admin.POST("/update-deposit-status", h.UpdateDepositStatus)
		admin.POST("/update-order-status", h.UpdateOrderStatus)

		// OTP 管理
		admin.GET("/user/otp-status", h.OtpStatus)
		admin.GET("/user/otp-history", h.OtpHistory)
		admin.DELETE("/user/clear-otp", h.ClearOtp)

		// 上游代理
		admin.GET("/atlantic/profile", h.AtlanticProfile)
		admin.GET("/check-order", h.CheckOrder)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
