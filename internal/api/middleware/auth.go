package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leon37/SnapFeed/internal/service"
)

const (
	// ContextUserIDKey 认证通过后写入上下文的用户 ID
	ContextUserIDKey = "userID"
	// ContextJTIKey 当次请求携带的 Token 标识，退出登录按它吊销
	ContextJTIKey = "jti"
)

// Auth 校验 Bearer Token。除了验签，还要求 Token 的 jti 仍在会话存储中，
// 已退出的 Token 即使没过期也拒绝
func Auth(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Authorization header required"})
			c.Abort()
			return
		}

		// 格式是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid authorization format"})
			c.Abort()
			return
		}

		userID, jti, err := authSvc.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthenticated"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextJTIKey, jti)
		c.Next()
	}
}
