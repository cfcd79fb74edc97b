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

// PostController 帖子 CRUD
type PostController struct {
	postService      *service.PostService
	enforceOwnership bool
}

func NewPostController(postService *service.PostService, enforceOwnership bool) *PostController {
	return &PostController{
		postService:      postService,
		enforceOwnership: enforceOwnership,
	}
}

// Index 帖子列表
// @Summary 帖子列表
// @Description 返回全部帖子，最近更新的排前面，带作者公开信息
// @Tags Post
// @Produce json
// @Success 200 {object} map[string]interface{} "message, posts"
// @Router /posts [get]
func (ctrl *PostController) Index(c *gin.Context) {
	posts, err := ctrl.postService.List(c.Request.Context())
	if err != nil {
		slog.Error("List posts failed", "err", err)
		response.ServerError(c, "Something went wrong while retrieving posts.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Posts retrieved successfully",
		"posts":   posts,
	})
}

// Show 帖子详情
// @Summary 帖子详情
// @Tags Post
// @Produce json
// @Param id path int true "帖子 ID"
// @Success 200 {object} map[string]interface{} "message, post"
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [get]
func (ctrl *PostController) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	post, err := ctrl.postService.Get(c.Request.Context(), uint(id))
	if err != nil {
		response.FromError(c, err, "Post not found", "Something went wrong while retrieving the post.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Post retrieved successfully",
		"post":    post,
	})
}

// Store 发帖
// @Summary 发帖
// @Description user_id 必须是已存在的用户，可选图片附件
// @Tags Post
// @Accept mpfd
// @Produce json
// @Param title formData string false "标题"
// @Param content formData string true "正文"
// @Param user_id formData int true "作者用户 ID"
// @Param image formData file false "图片"
// @Success 201 {object} map[string]interface{} "message, post"
// @Failure 422 {object} map[string]interface{}
// @Router /posts [post]
func (ctrl *PostController) Store(c *gin.Context) {
	input := service.PostInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	}
	if raw := c.PostForm("user_id"); raw != "" {
		uid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ValidationFailed(c, map[string]string{"user_id": "The selected user id is invalid."})
			return
		}
		input.UserID = uint(uid)
	}

	if ctrl.enforceOwnership {
		actor := c.GetUint(middleware.ContextUserIDKey)
		if actor != input.UserID {
			response.Forbidden(c)
			return
		}
	}

	upload, closer, err := openUpload(c)
	if err != nil {
		response.ServerError(c, "Something went wrong while creating the post.", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	post, err := ctrl.postService.Create(c.Request.Context(), input, upload)
	if err != nil {
		slog.Warn("Create post failed", "user_id", input.UserID, "err", err)
		response.FromError(c, err, "", "Something went wrong while creating the post.")
		return
	}

	slog.Info("Post created", "post_id", post.ID, "user_id", post.UserID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

// Update 编辑帖子
// @Summary 编辑帖子
// @Description 部分更新：表单里没有的字段保持原值。换图先写新对象再删旧对象
// @Tags Post
// @Accept mpfd
// @Produce json
// @Param id path int true "帖子 ID"
// @Success 200 {object} map[string]interface{} "message, post"
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /posts/{id} [put]
func (ctrl *PostController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	if !ctrl.allowedToMutate(c, uint(id)) {
		return
	}

	upd := service.PostUpdate{}
	if v, ok := c.GetPostForm("title"); ok {
		upd.Title = &v
	}
	if v, ok := c.GetPostForm("content"); ok {
		upd.Content = &v
	}
	if raw, ok := c.GetPostForm("user_id"); ok {
		uid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ValidationFailed(c, map[string]string{"user_id": "The selected user id is invalid."})
			return
		}
		u := uint(uid)
		upd.UserID = &u
	}

	upload, closer, err := openUpload(c)
	if err != nil {
		response.ServerError(c, "Something went wrong while updating the post.", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	post, err := ctrl.postService.Update(c.Request.Context(), uint(id), upd, upload)
	if err != nil {
		slog.Warn("Update post failed", "post_id", id, "err", err)
		response.FromError(c, err, "Post not found", "Something went wrong while updating the post.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// Destroy 删帖
// @Summary 删帖
// @Description 删除帖子，关联图片尽力清理（清理失败不影响结果）
// @Tags Post
// @Produce json
// @Param id path int true "帖子 ID"
// @Success 200 {object} map[string]interface{} "message"
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [delete]
func (ctrl *PostController) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	if !ctrl.allowedToMutate(c, uint(id)) {
		return
	}

	if err := ctrl.postService.Delete(c.Request.Context(), uint(id)); err != nil {
		slog.Warn("Delete post failed", "post_id", id, "err", err)
		response.FromError(c, err, "Post not found", "Something went wrong while deleting the post.")
		return
	}

	slog.Info("Post deleted", "post_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// allowedToMutate 开启 enforce_ownership 时校验当前用户是不是帖子作者。
// 校验失败时已写好响应，调用方直接 return
func (ctrl *PostController) allowedToMutate(c *gin.Context, postID uint) bool {
	if !ctrl.enforceOwnership {
		return true
	}

	post, err := ctrl.postService.Get(c.Request.Context(), postID)
	if err != nil {
		response.FromError(c, err, "Post not found", "Something went wrong while retrieving the post.")
		return false
	}
	if c.GetUint(middleware.ContextUserIDKey) != post.UserID {
		response.Forbidden(c)
		return false
	}
	return true
}
