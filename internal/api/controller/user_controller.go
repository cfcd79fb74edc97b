package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leon37/SnapFeed/internal/api/middleware"
	"github.com/leon37/SnapFeed/internal/api/response"
	"github.com/leon37/SnapFeed/internal/service"
)

// UserController 处理注册和资料编辑
type UserController struct {
	profileService *service.ProfileService
	// enforceOwnership 开启后编辑接口只允许本人操作
	enforceOwnership bool
}

func NewUserController(profileService *service.ProfileService, enforceOwnership bool) *UserController {
	return &UserController{
		profileService:   profileService,
		enforceOwnership: enforceOwnership,
	}
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户，密码 bcrypt 加密存储，可选头像上传
// @Tags User
// @Accept mpfd
// @Produce json
// @Param name formData string true "显示名"
// @Param email formData string true "邮箱，全局唯一"
// @Param password formData string true "密码，至少 8 位"
// @Param gender formData boolean true "性别"
// @Param phone formData string true "手机号，10 位数字"
// @Param image formData file false "头像"
// @Success 201 {object} map[string]interface{} "message, user"
// @Failure 422 {object} map[string]interface{} "message, errors"
// @Router /register [post]
func (ctrl *UserController) Register(c *gin.Context) {
	input := service.RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Gender:   c.PostForm("gender"),
		Phone:    c.PostForm("phone"),
	}

	upload, closer, err := openUpload(c)
	if err != nil {
		response.ServerError(c, "Something went wrong during registration.", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	user, err := ctrl.profileService.Register(c.Request.Context(), input, upload)
	if err != nil {
		slog.Warn("Register failed", "email", input.Email, "err", err)
		response.FromError(c, err, "", "Something went wrong during registration.")
		return
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// GetUser 查询用户
// @Summary 查询用户资料
// @Tags User
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} map[string]interface{} "user"
// @Failure 404 {object} map[string]interface{}
// @Router /edit/{id} [get]
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	user, err := ctrl.profileService.GetUser(c.Request.Context(), uint(id))
	if err != nil {
		response.FromError(c, err, "User not found", "Something went wrong while retrieving the user.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Update 编辑用户资料
// @Summary 编辑用户资料
// @Description 部分更新：表单里没有的字段保持原值；密码传空串视为不修改
// @Tags User
// @Accept mpfd
// @Produce json
// @Param id path int true "用户 ID"
// @Param image formData file false "新头像，旧头像在更新成功后删除"
// @Success 200 {object} map[string]interface{} "message, user"
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /users/{id} [put]
func (ctrl *UserController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	if ctrl.enforceOwnership {
		actor := c.GetUint(middleware.ContextUserIDKey)
		if actor != uint(id) {
			response.Forbidden(c)
			return
		}
	}

	// 用 GetPostForm 的第二个返回值区分"没传"和"传了空串"
	upd := service.UserUpdate{}
	if v, ok := c.GetPostForm("name"); ok {
		upd.Name = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		upd.Email = &v
	}
	if v, ok := c.GetPostForm("password"); ok {
		upd.Password = &v
	}
	if v, ok := c.GetPostForm("gender"); ok {
		upd.Gender = &v
	}
	if v, ok := c.GetPostForm("phone"); ok {
		upd.Phone = &v
	}

	upload, closer, err := openUpload(c)
	if err != nil {
		response.ServerError(c, "Something went wrong during profile update.", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	user, err := ctrl.profileService.UpdateUser(c.Request.Context(), uint(id), upd, upload)
	if err != nil {
		slog.Warn("Update user failed", "user_id", id, "err", err)
		response.FromError(c, err, "User not found", "Something went wrong during profile update.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}
