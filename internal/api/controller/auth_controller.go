package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/SnapFeed/internal/api/middleware"
	"github.com/leon37/SnapFeed/internal/api/response"
	"github.com/leon37/SnapFeed/internal/service"
)

// AuthController 处理登录和退出
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验邮箱密码，颁发 Bearer Token。账号不存在和密码错误返回同样的 401
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录参数"
// @Success 200 {object} map[string]interface{} "msg, user, token"
// @Failure 401 {object} map[string]interface{}
// @Router /login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, map[string]string{"body": "The request body is malformed."})
		return
	}

	fields := make(map[string]string)
	if req.Email == "" {
		fields["email"] = "The email field is required."
	}
	if req.Password == "" {
		fields["password"] = "The password field is required."
	}
	if len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	user, token, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "err", err)
		response.FromError(c, err, "", "Something went wrong during login.")
		return
	}

	slog.Info("User logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"msg":   "Login successful",
		"user":  user,
		"token": token,
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 吊销当次请求携带的 Token，该用户的其他登录不受影响
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "msg"
// @Failure 401 {object} map[string]interface{}
// @Router /logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	jti := c.GetString(middleware.ContextJTIKey)
	if err := ctrl.authService.Logout(c.Request.Context(), jti); err != nil {
		slog.Error("Logout failed", "err", err)
		response.ServerError(c, "Something went wrong during logout.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out successfully"})
}
