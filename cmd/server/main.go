package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/user/radiodex/internal/config"
	"github.com/user/radiodex/internal/handler"
	"github.com/user/radiodex/internal/logging"
	"github.com/user/radiodex/internal/repository"
	"github.com/user/radiodex/internal/router"
	"github.com/user/radiodex/internal/service"
	"github.com/user/radiodex/internal/utils"
	"gorm.io/gorm/logger"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	if envErr != nil {
		log.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if cfg.UsesDefaultSecret() {
		if cfg.IsProduction() {
			log.Warn().Msg("APP_SECRET 仍为默认值，生产环境下任何人都能伪造 Token，请立即修改")
		} else {
			log.Warn().Msg("APP_SECRET 未设置，使用默认开发密钥")
		}
	}

	// 初始化数据库
	gormLevel := logger.Warn
	if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
		gormLevel = logger.Info
	}
	db, err := repository.InitDB(cfg.DBDriver, cfg.DatabaseURL, gormLevel)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("数据库连接失败")
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("数据库迁移失败")
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 初始化缓存
	utils.InitCache()

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := router.NewEngine(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化 HTTP 引擎失败")
	}

	// 初始化 Handler
	h := handler.NewHandler(repos, cfg)

	// 启动定时清理任务
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	service.NewCleanupService(repos, cfg.HistoryRetentionDays).Start(ctx)

	// 注册路由
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.DBDriver).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// SIGHUP 清空目录缓存（重新导入电台后发送），SIGINT/SIGTERM 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := <-quit; sig == syscall.SIGHUP; sig = <-quit {
		h.Similarity.Invalidate()
		utils.CacheClear()
	}
	log.Info().Msg("正在关闭服务器...")
	stop()

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
	}

	log.Info().Msg("服务器已退出")
}
