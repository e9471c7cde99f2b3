package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"campuslink/internal/api/middleware"
	"campuslink/internal/auth"
	"campuslink/internal/config"
)

// RegisterRoutes 는 /v1 아래의 전체 API 라우트를 한곳에서 등록한다.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	store bannerStore,
	cfg *config.Config,
) {
	authHandler := NewAuthHandler(
		db,
		authService,
		redisClient,
		logger,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		cfg.Auth.LoginLockTTL,
		cfg.API.CookieDomain,
	)
	userHandler := NewUserHandler(db, authService, redisClient, logger)
	schoolHandler := NewSchoolHandler(db, logger)
	postHandler := NewPostHandler(db, logger)
	commentHandler := NewCommentHandler(db, asynqClient, logger)
	assetHandler := NewAssetHandler(store, cfg.Banner, logger)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.Origins())
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.GET("/check-email", authHandler.CheckEmail)
			authGroup.GET("/check-nickname", authHandler.CheckNickname)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		meGroup := v1.Group("/me")
		meGroup.Use(authMiddleware)
		{
			meGroup.GET("", userHandler.Me)
			meGroup.PATCH("", userHandler.UpdateMe)
			meGroup.DELETE("", userHandler.DeleteMe)
			meGroup.GET("/preferences", userHandler.GetPreferences)
			meGroup.PUT("/preferences", userHandler.PutPreferences)
			meGroup.GET("/schools", schoolHandler.ListMine)
			meGroup.POST("/schools", schoolHandler.AddMine)
			meGroup.DELETE("/schools/:id", schoolHandler.RemoveMine)
		}

		schoolGroup := v1.Group("/schools")
		schoolGroup.Use(authMiddleware)
		{
			schoolGroup.GET("", schoolHandler.Search)
			schoolGroup.GET("/:id/posts", postHandler.ListForSchool)
			schoolGroup.POST("/:id/posts", postHandler.Create)
		}

		postGroup := v1.Group("/posts")
		postGroup.Use(authMiddleware)
		{
			postGroup.GET("/:id", postHandler.GetOne)
			postGroup.GET("/:id/comments", commentHandler.List)
			postGroup.POST("/:id/comments", commentHandler.Create)
		}

		assetGroup := v1.Group("/assets")
		{
			assetGroup.GET("/banner", assetHandler.GetBanner)
		}
	}
}
