package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/SnapFeed/internal/service"
)

// 业务错误只在这一层翻译成 HTTP 状态码和响应体，控制器不自己拼状态码

// ValidationFailed 422，携带 字段->提示 映射
func ValidationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "Validation failed",
		"errors":  fields,
	})
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

// Unauthorized 401，登录失败和未认证都用模糊提示
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"msg": msg})
}

// Forbidden 403，仅在开启 enforce_ownership 时出现
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
}

// ServerError 500。错误详情直接透出，方便调试（生产环境应收敛）
func ServerError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": message,
		"error":   err.Error(),
	})
}

// FromError 按错误类别分发。notFoundMsg/unexpectedMsg 由各接口给出各自的文案
func FromError(c *gin.Context, err error, notFoundMsg, unexpectedMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		ValidationFailed(c, ve.Fields)
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, notFoundMsg)
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthenticated):
		Unauthorized(c, "Unauthenticated")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c)
	default:
		ServerError(c, unexpectedMsg, err)
	}
}
