package public

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ks-platform/passport/internal/config"
	"github.com/ks-platform/passport/internal/constants"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/provider"
	"github.com/ks-platform/passport/internal/repository"
	"github.com/ks-platform/passport/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserLoginTest(t *testing.T) (*gin.Engine, *service.UserAuthService, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:user_login_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.UserReferral{}, &models.UserLoginLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: "unit-test-secret-key-0123456789abcdef", ExpireMinutes: 30},
		Referral: config.ReferralConfig{CodePrefix: "KS", CodeDigits: 6},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6}},
	}
	userRepo := repository.NewUserRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	authSvc := service.NewUserAuthService(cfg, userRepo, referralRepo)
	c := &provider.Container{
		Config:              cfg,
		UserRepo:            userRepo,
		ReferralRepo:        referralRepo,
		UserAuthService:     authSvc,
		UserLoginLogService: service.NewUserLoginLogService(repository.NewUserLoginLogRepository(db)),
	}

	r := gin.New()
	r.POST("/api/login", New(c).UserLogin)
	return r, authSvc, db
}

func postLogin(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func countLoginLogs(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.UserLoginLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count login logs failed: %v", err)
	}
	return count
}

func TestUserLoginBindFailureWithoutIdentifierSkipsLog(t *testing.T) {
	r, _, db := setupUserLoginTest(t)

	w := postLogin(t, r, `{"password":"secret123"}`)
	if !strings.Contains(w.Body.String(), `"status_code":400`) {
		t.Fatalf("expected bad_request envelope, got %s", w.Body.String())
	}
	if count := countLoginLogs(t, db); count != 0 {
		t.Fatalf("blank identifier should not be logged, got %d rows", count)
	}
}

func TestUserLoginBindFailureWithIdentifierLogsBadRequest(t *testing.T) {
	r, authSvc, db := setupUserLoginTest(t)

	if _, _, _, err := authSvc.Register(service.RegisterInput{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	w := postLogin(t, r, `{"username_or_phone":"alice"}`)
	if !strings.Contains(w.Body.String(), `"status_code":400`) {
		t.Fatalf("expected bad_request envelope, got %s", w.Body.String())
	}

	var log models.UserLoginLog
	if err := db.Where("username = ?", "alice").First(&log).Error; err != nil {
		t.Fatalf("login log row missing: %v", err)
	}
	if log.Status != constants.LoginLogStatusFailed || log.FailReason != constants.LoginLogFailReasonBadRequest {
		t.Fatalf("unexpected log row: status=%s fail_reason=%s", log.Status, log.FailReason)
	}
}
