package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leon37/SnapFeed/internal/api"
	"github.com/leon37/SnapFeed/internal/api/controller"
	"github.com/leon37/SnapFeed/internal/config"
	"github.com/leon37/SnapFeed/internal/infrastructure/cache"
	"github.com/leon37/SnapFeed/internal/infrastructure/database"
	"github.com/leon37/SnapFeed/internal/infrastructure/storage"
	"github.com/leon37/SnapFeed/internal/repository"
	"github.com/leon37/SnapFeed/internal/service"
)

// @title           SnapFeed API
// @version         1.0
// @description     基于 Go + Gin + MySQL + MinIO 的迷你社交网络

// @host            localhost:8080
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 请在输入框中输入 "Bearer <token>" (注意 Bearer 和 token 之间有空格)

func main() {
	// 1. 初始化 Logger
	// JSON 格式输出方便解析，AddSource 显示文件名和行号
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug, // 开发阶段设为 Debug，生产环境改为 Info
	}))
	slog.SetDefault(logger)

	slog.Info("SnapFeed 系统启动中...")

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	log.Println("配置加载成功")

	// 2. Infra Initialization
	db := database.NewMySQLConnection(conf.Database.DSN) // 这里会自动建表

	redisClient, err := cache.NewRedisClient(conf.Redis)
	if err != nil {
		log.Fatalf("Failed to init Redis: %v", err)
	}
	defer redisClient.Close()

	mediaStore, err := storage.NewMinioStore(conf.Minio)
	if err != nil {
		log.Fatalf("Failed to init MinIO: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mediaStore.EnsureBucket(ctx); err != nil {
		// 媒体桶建不出来，后续上传必然失败，直接退出
		log.Fatalf("Failed to ensure media bucket: %v", err)
	}

	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Layer Wiring (依赖注入)
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(db)
	sessionRepo := repository.NewSessionRepo(redisClient)

	authSvc := service.NewAuthService(userRepo, sessionRepo, conf.JWT)
	profileSvc := service.NewProfileService(userRepo, mediaStore)
	postSvc := service.NewPostService(postRepo, userRepo, mediaStore)

	authCtrl := controller.NewAuthController(authSvc)
	userCtrl := controller.NewUserController(profileSvc, conf.Auth.EnforceOwnership)
	postCtrl := controller.NewPostController(postSvc, conf.Auth.EnforceOwnership)

	// 4. Server Start
	r := gin.Default()
	api.RegisterRoutes(r, conf, authCtrl, userCtrl, postCtrl, authSvc)

	slog.Info("SnapFeed Web Server 启动中", "port", conf.Server.Port)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("服务器启动失败", "error", err)
	}
}
