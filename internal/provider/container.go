package provider

import (
	"github.com/ks-platform/passport/internal/cache"
	"github.com/ks-platform/passport/internal/config"
	"github.com/ks-platform/passport/internal/logger"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/repository"
	"github.com/ks-platform/passport/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo         repository.UserRepository
	ReferralRepo     repository.ReferralRepository
	UserLoginLogRepo repository.UserLoginLogRepository

	// Services
	UserAuthService     *service.UserAuthService
	ReferralService     *service.ReferralService
	AdminService        *service.AdminService
	UserLoginLogService *service.UserLoginLogService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config: cfg,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ReferralRepo = repository.NewReferralRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.ReferralRepo)
	c.ReferralService = service.NewReferralService(c.Config, c.UserRepo, c.ReferralRepo)
	c.AdminService = service.NewAdminService(c.Config, c.UserRepo, c.ReferralRepo, c.UserAuthService)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
}
