package admin

import (
	"encoding/json"
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

func setupCreateAdminTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:create_admin_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.UserReferral{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: "unit-test-secret-key-0123456789abcdef", ExpireMinutes: 30},
		Admin:    config.AdminConfig{Secret: "unit-test-admin-secret"},
		Referral: config.ReferralConfig{CodePrefix: "KS", CodeDigits: 6},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6}},
	}
	userRepo := repository.NewUserRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	authSvc := service.NewUserAuthService(cfg, userRepo, referralRepo)
	c := &provider.Container{
		Config:       cfg,
		UserRepo:     userRepo,
		ReferralRepo: referralRepo,
		AdminService: service.NewAdminService(cfg, userRepo, referralRepo, authSvc),
	}

	r := gin.New()
	r.POST("/api/admin/create-admin", New(c).CreateAdmin)
	return r, db
}

func postCreateAdmin(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestCreateAdminSecretFromQuery(t *testing.T) {
	r, db := setupCreateAdminTest(t)

	w := postCreateAdmin(t, r, "/api/admin/create-admin?admin_secret=unit-test-admin-secret",
		`{"username":"root","password":"secret123","nickname":"Root"}`)
	if code := decodeStatusCode(t, w); code != 0 {
		t.Fatalf("status_code want 0 got %d body=%s", code, w.Body.String())
	}

	var user models.User
	if err := db.Where("username = ?", "root").First(&user).Error; err != nil {
		t.Fatalf("admin user missing: %v", err)
	}
	if user.Role != constants.UserRoleAdmin {
		t.Fatalf("role want admin got %s", user.Role)
	}
}

func TestCreateAdminSecretFromBody(t *testing.T) {
	r, db := setupCreateAdminTest(t)

	w := postCreateAdmin(t, r, "/api/admin/create-admin",
		`{"secret":"unit-test-admin-secret","username":"root","password":"secret123"}`)
	if code := decodeStatusCode(t, w); code != 0 {
		t.Fatalf("status_code want 0 got %d body=%s", code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("user count want 1 got %d", count)
	}
}

func TestCreateAdminWrongSecret(t *testing.T) {
	r, db := setupCreateAdminTest(t)

	w := postCreateAdmin(t, r, "/api/admin/create-admin?admin_secret=wrong",
		`{"username":"root","password":"secret123"}`)
	if code := decodeStatusCode(t, w); code != 403 {
		t.Fatalf("status_code want 403 got %d body=%s", code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("wrong secret should create no users, got %d", count)
	}
}
