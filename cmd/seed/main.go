package main

import (
	"errors"
	"flag"
	"strings"

	"github.com/ks-platform/passport/internal/config"
	"github.com/ks-platform/passport/internal/logger"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/provider"
	"github.com/ks-platform/passport/internal/service"
)

// 管理员引导工具：使用配置中的共享密钥创建管理员账号。
func main() {
	var username string
	var password string
	var nickname string
	var phone string
	flag.StringVar(&username, "username", "", "管理员用户名（必填）")
	flag.StringVar(&password, "password", "", "管理员密码（必填）")
	flag.StringVar(&nickname, "nickname", "", "管理员昵称")
	flag.StringVar(&phone, "phone", "", "管理员手机号")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		stdLog.Fatalf("用法: seed -username <用户名> -password <密码> [-nickname <昵称>] [-phone <手机号>]")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	container := provider.NewContainer(cfg)
	user, _, _, err := container.AdminService.CreateAdmin(cfg.Admin.Secret, service.CreateAdminInput{
		Username: username,
		Password: password,
		Nickname: nickname,
		Phone:    phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrAdminExists) {
			stdLog.Fatalf("已存在管理员账号，如需创建多个请开启 admin.allow_multiple")
		}
		stdLog.Fatalf("创建管理员失败: %v", err)
	}

	stdLog.Printf("管理员创建成功: id=%d username=%s referral_code=%s", user.ID, user.Username, user.ReferralCode)
}
