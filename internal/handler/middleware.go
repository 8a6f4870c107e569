package handler

import (
	"log"
	"net/http"
	"time"

	"adminpanel/pkg/response"

	"github.com/gin-gonic/gin"
)

const adminIDKey = "adminID"

// AdminAuthMiddleware 管理员身份中间件
// 会话/角色校验由前置网关完成，这里只要求显式带上操作人标识：
// 所有写操作的审计都以这个显式参数为准，不读任何全局会话状态
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Admin-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
				Success: false,
				Message: "Header X-Admin-ID wajib diisi",
			})
			return
		}
		c.Set(adminIDKey, id)
		c.Next()
	}
}

// adminID 取出中间件注入的操作人标识
func adminID(c *gin.Context) string {
	return c.GetString(adminIDKey)
}

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// 处理请求
		c.Next()

		// 记录日志
		latency := time.Since(start)
		status := c.Writer.Status()

		if query != "" {
			path = path + "?" + query
		}

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s",
			status,
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// RecoveryMiddleware 恢复中间件，防止 panic 导致服务崩溃
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Success: false,
					Message: "Terjadi kesalahan pada server",
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID, X-Admin-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
