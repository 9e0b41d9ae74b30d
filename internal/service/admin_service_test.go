package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ks-platform/passport/internal/constants"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (*AdminService, *UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.UserReferral{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := passportTestConfig()
	userRepo := repository.NewUserRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	authSvc := NewUserAuthService(cfg, userRepo, referralRepo)
	return NewAdminService(cfg, userRepo, referralRepo, authSvc), authSvc, db
}

func TestCreateAdminWrongSecretCreatesNothing(t *testing.T) {
	svc, _, db := setupAdminServiceTest(t)

	_, _, _, err := svc.CreateAdmin("wrong-secret", CreateAdminInput{Username: "root", Password: "secret123"})
	if !errors.Is(err, ErrAdminSecretInvalid) {
		t.Fatalf("wrong secret want ErrAdminSecretInvalid got %v", err)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("wrong secret should create no users, got %d", count)
	}
}

func TestCreateAdminWithSecret(t *testing.T) {
	svc, _, db := setupAdminServiceTest(t)

	user, token, expiresAt, err := svc.CreateAdmin("unit-test-admin-secret", CreateAdminInput{Username: "root", Password: "secret123"})
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if user.Role != constants.UserRoleAdmin {
		t.Fatalf("role want admin got %s", user.Role)
	}
	if user.ReferralCode != fmt.Sprintf("KS%06d", user.ID) {
		t.Fatalf("unexpected referral code %s", user.ReferralCode)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("invalid token result: token=%q expires_at=%v", token, expiresAt)
	}

	var ref models.UserReferral
	if err := db.Where("user_id = ?", user.ID).First(&ref).Error; err != nil {
		t.Fatalf("admin referral row missing: %v", err)
	}
	if ref.InviterLevel1 != nil || ref.InviterLevel2 != nil {
		t.Fatalf("admin referral snapshot should be empty: %+v", ref)
	}

	// 默认只允许一个密钥创建的管理员
	_, _, _, err = svc.CreateAdmin("unit-test-admin-secret", CreateAdminInput{Username: "root2", Password: "secret123"})
	if !errors.Is(err, ErrAdminExists) {
		t.Fatalf("second admin want ErrAdminExists got %v", err)
	}
}

func TestCreateAdminAllowMultiple(t *testing.T) {
	svc, _, _ := setupAdminServiceTest(t)
	svc.cfg.Admin.AllowMultiple = true

	if _, _, _, err := svc.CreateAdmin("unit-test-admin-secret", CreateAdminInput{Username: "root", Password: "secret123"}); err != nil {
		t.Fatalf("create first admin failed: %v", err)
	}
	if _, _, _, err := svc.CreateAdmin("unit-test-admin-secret", CreateAdminInput{Username: "root2", Password: "secret123"}); err != nil {
		t.Fatalf("create second admin failed: %v", err)
	}
}

func TestUpdateUserRoleAndStatus(t *testing.T) {
	svc, authSvc, db := setupAdminServiceTest(t)

	registerReferralUser(t, authSvc, "root", "")
	user := registerReferralUser(t, authSvc, "alice", "")

	badRole := "superuser"
	if _, err := svc.UpdateUser(user.ID, UpdateUserInput{Role: &badRole}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("bad role want ErrInvalidRole got %v", err)
	}

	agent := constants.UserRoleAgent
	disabled := constants.UserStatusDisabled
	updated, err := svc.UpdateUser(user.ID, UpdateUserInput{Role: &agent, Status: &disabled})
	if err != nil {
		t.Fatalf("update user failed: %v", err)
	}
	if updated.Role != constants.UserRoleAgent || updated.Status != constants.UserStatusDisabled {
		t.Fatalf("unexpected update result: role=%s status=%s", updated.Role, updated.Status)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	// 禁用需要吊销已签发的 Token
	if stored.TokenVersion != user.TokenVersion+1 || stored.TokenInvalidBefore == nil {
		t.Fatalf("disable should revoke tokens: version=%d invalid_before=%v", stored.TokenVersion, stored.TokenInvalidBefore)
	}
}

func TestUpdateUserPhoneConflict(t *testing.T) {
	svc, authSvc, _ := setupAdminServiceTest(t)

	registerReferralUser(t, authSvc, "root", "")
	alice, _, _, err := authSvc.Register(RegisterInput{Username: "alice", Password: "secret123", Phone: "13800000001"})
	if err != nil {
		t.Fatalf("register alice failed: %v", err)
	}
	bob := registerReferralUser(t, authSvc, "bob", "")

	phone := "13800000001"
	if _, err := svc.UpdateUser(bob.ID, UpdateUserInput{Phone: &phone}); !errors.Is(err, ErrPhoneExists) {
		t.Fatalf("phone conflict want ErrPhoneExists got %v", err)
	}

	// 本人手机号不变时不算冲突
	if _, err := svc.UpdateUser(alice.ID, UpdateUserInput{Phone: &phone}); err != nil {
		t.Fatalf("same owner phone update failed: %v", err)
	}
}

func TestBatchUpdateStatus(t *testing.T) {
	svc, authSvc, db := setupAdminServiceTest(t)

	registerReferralUser(t, authSvc, "root", "")
	alice := registerReferralUser(t, authSvc, "alice", "")
	bob := registerReferralUser(t, authSvc, "bob", "")

	if err := svc.BatchUpdateStatus([]uint{alice.ID, bob.ID}, "frozen"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status want ErrInvalidStatus got %v", err)
	}

	if err := svc.BatchUpdateStatus([]uint{alice.ID, bob.ID}, constants.UserStatusDisabled); err != nil {
		t.Fatalf("batch disable failed: %v", err)
	}

	var users []models.User
	if err := db.Where("id IN ?", []uint{alice.ID, bob.ID}).Find(&users).Error; err != nil {
		t.Fatalf("load users failed: %v", err)
	}
	for _, u := range users {
		if u.Status != constants.UserStatusDisabled {
			t.Fatalf("user %d status want disabled got %s", u.ID, u.Status)
		}
		if u.TokenInvalidBefore == nil {
			t.Fatalf("user %d should have token_invalid_before set", u.ID)
		}
	}
}
