package router

import (
	"fmt"
	"strings"

	"github.com/ks-platform/passport/internal/cache"
	"github.com/ks-platform/passport/internal/config"
	"github.com/ks-platform/passport/internal/constants"
	adminhandlers "github.com/ks-platform/passport/internal/http/handlers/admin"
	publichandlers "github.com/ks-platform/passport/internal/http/handlers/public"
	"github.com/ks-platform/passport/internal/logger"
	"github.com/ks-platform/passport/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	api := r.Group("/api")
	{
		// 认证接口（无需登录）
		api.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.UserRegister)
		api.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username_or_phone")), publicHandler.UserLogin)

		// 用户接口（需鉴权）
		user := api.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)
			user.GET("/me/login-logs", publicHandler.GetMyLoginLogs)
			user.GET("/me/referral", publicHandler.GetMyReferral)
			user.POST("/me/bind-inviter", publicHandler.BindInviter)
			user.GET("/referrals", publicHandler.ListReferrals)
			user.GET("/referrals/my-invites", publicHandler.ListMyInvites)
			user.GET("/referrals/chain/:user_id", publicHandler.GetReferralChain)
		}

		// 管理员接口
		admin := api.Group("/admin")
		{
			// 密钥创建管理员（无需登录，密钥在服务端校验）
			admin.POST("/create-admin", RateLimitMiddleware(redisClient, registerRule, KeyByIP), adminHandler.CreateAdmin)

			// 需要管理员角色的接口
			authorized := admin.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), AdminRequiredMiddleware())
			{
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PUT("/users/batch-status", adminHandler.BatchUpdateUserStatus)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.PUT("/users/:id", adminHandler.UpdateAdminUser)
				authorized.GET("/user-login-logs", adminHandler.GetUserLoginLogs)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
