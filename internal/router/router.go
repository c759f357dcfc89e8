package router

import (
	"fmt"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/radiodex/internal/config"
	"github.com/user/radiodex/internal/handler"
	"github.com/user/radiodex/internal/middleware"
)

// NewEngine 创建 Gin 引擎并挂载全局中间件
func NewEngine(cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())

	// 未配置代理时 ClientIP 只取对端地址，限流不受 X-Forwarded-For 影响
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES 无效: %w", err)
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	return r, nil
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	secret := h.Config.AppSecret

	// 运维
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// ==================== 认证 ====================
	limiter := middleware.NewRateLimiter(h.Config.AuthRatePerMinute)
	auth := api.Group("/auth")
	{
		auth.POST("/register", limiter.Middleware(), h.Register)
		auth.POST("/login", limiter.Middleware(), h.Login)
		auth.GET("/profile", middleware.RequireAuth(secret), h.Profile)
	}

	// ==================== 电台与标签（公开）====================
	api.GET("/stations", h.ListStations)
	api.GET("/stations/:id", h.GetStation)
	api.GET("/stations/:id/similar", h.SimilarStations)

	api.GET("/tags/categories", h.TagCategories)
	api.GET("/tags/:category", h.ListTags)

	// ==================== 用户（需要登录）====================
	user := api.Group("/user")
	user.Use(middleware.RequireAuth(secret))
	{
		user.GET("/favorites", h.ListFavorites)
		user.POST("/favorites", h.AddFavorite)
		user.DELETE("/favorites/:station_id", h.RemoveFavorite)

		user.GET("/history", h.ListHistory)
		user.POST("/history", h.RecordPlay)
		user.DELETE("/history/:id", h.RemoveHistory)

		user.GET("/playlists", h.MyPlaylists)
	}

	// ==================== 歌单 ====================
	playlists := api.Group("/playlists")
	{
		playlists.GET("", h.ListPublicPlaylists)
		playlists.GET("/:id", middleware.OptionalAuth(secret), h.GetPlaylist)

		owned := playlists.Group("")
		owned.Use(middleware.RequireAuth(secret))
		owned.POST("", h.CreatePlaylist)
		owned.PUT("/:id", h.UpdatePlaylist)
		owned.DELETE("/:id", h.DeletePlaylist)
		owned.POST("/:id/stations", h.AddPlaylistStation)
		owned.DELETE("/:id/stations/:station_id", h.RemovePlaylistStation)
	}
}
