package api

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/leon37/SnapFeed/internal/api/controller"
	"github.com/leon37/SnapFeed/internal/api/middleware"
	"github.com/leon37/SnapFeed/internal/config"
	"github.com/leon37/SnapFeed/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/leon37/SnapFeed/docs"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, cfg *config.Config,
	authCtrl *controller.AuthController,
	userCtrl *controller.UserController,
	postCtrl *controller.PostController,
	authSvc *service.AuthService) {

	r.Use(middleware.Cors())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 前端 SPA 静态资源
	if dir := cfg.Web.StaticDir; dir != "" {
		r.StaticFile("/", filepath.Join(dir, "index.html"))
		r.Static("/js", filepath.Join(dir, "js"))
		r.Static("/css", filepath.Join(dir, "css"))
	}

	authRequired := middleware.Auth(authSvc)

	// 开启 enforce_ownership 后，修改类接口也要求登录；
	// 默认保持原型行为，除 logout 外都不强制带 Token
	mutationGuard := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.Auth.EnforceOwnership {
			return []gin.HandlerFunc{authRequired, h}
		}
		return []gin.HandlerFunc{h}
	}

	api := r.Group("/api")
	{
		api.POST("/register", userCtrl.Register)
		api.POST("/login", authCtrl.Login)
		api.POST("/logout", authRequired, authCtrl.Logout)

		api.GET("/edit/:id", userCtrl.GetUser)
		api.PUT("/users/:id", mutationGuard(userCtrl.Update)...)

		api.GET("/posts", postCtrl.Index)
		api.GET("/posts/:id", postCtrl.Show)
		api.POST("/posts", mutationGuard(postCtrl.Store)...)
		api.PUT("/posts/:id", mutationGuard(postCtrl.Update)...)
		api.DELETE("/posts/:id", mutationGuard(postCtrl.Destroy)...)
	}
}
