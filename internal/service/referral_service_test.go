package service

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/ks-platform/passport/internal/constants"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReferralServiceTest(t *testing.T) (*ReferralService, *UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:referral_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	return NewReferralService(cfg, userRepo, referralRepo), authSvc, db
}

func registerReferralUser(t *testing.T, authSvc *UserAuthService, username, inviteCode string) *models.User {
	t.Helper()
	user, _, _, err := authSvc.Register(RegisterInput{Username: username, Password: "secret123", InviteCode: inviteCode})
	if err != nil {
		t.Fatalf("register %s failed: %v", username, err)
	}
	return user
}

func TestResolveInviterOrder(t *testing.T) {
	svc, authSvc, _ := setupReferralServiceTest(t)

	alice := registerReferralUser(t, authSvc, "alice", "")

	byCode, err := svc.ResolveInviter(alice.ReferralCode)
	if err != nil || byCode == nil || byCode.ID != alice.ID {
		t.Fatalf("resolve by referral code failed: user=%v err=%v", byCode, err)
	}

	byID, err := svc.ResolveInviter(strconv.FormatUint(uint64(alice.ID), 10))
	if err != nil || byID == nil || byID.ID != alice.ID {
		t.Fatalf("resolve by numeric id failed: user=%v err=%v", byID, err)
	}

	byName, err := svc.ResolveInviter("alice")
	if err != nil || byName == nil || byName.ID != alice.ID {
		t.Fatalf("resolve by username failed: user=%v err=%v", byName, err)
	}

	empty, err := svc.ResolveInviter("   ")
	if err != nil || empty != nil {
		t.Fatalf("blank invite code should resolve to nil, got user=%v err=%v", empty, err)
	}

	if _, err := svc.ResolveInviter("no-such-user"); !errors.Is(err, ErrInviteCodeInvalid) {
		t.Fatalf("unknown invite code want ErrInviteCodeInvalid got %v", err)
	}
}

func TestBindInviter(t *testing.T) {
	svc, authSvc, db := setupReferralServiceTest(t)

	alice := registerReferralUser(t, authSvc, "alice", "")
	bob := registerReferralUser(t, authSvc, "bob", "")

	if err := svc.BindInviter(bob.ID, alice.ReferralCode); err != nil {
		t.Fatalf("bind inviter failed: %v", err)
	}

	var updated models.User
	if err := db.First(&updated, bob.ID).Error; err != nil {
		t.Fatalf("load bob failed: %v", err)
	}
	if updated.InviterID == nil || *updated.InviterID != alice.ID {
		t.Fatalf("bob inviter want %d got %v", alice.ID, updated.InviterID)
	}

	var ref models.UserReferral
	if err := db.Where("user_id = ?", bob.ID).First(&ref).Error; err != nil {
		t.Fatalf("bob referral row missing: %v", err)
	}
	if ref.InviterLevel1 == nil || *ref.InviterLevel1 != alice.ID {
		t.Fatalf("bob level1 want %d got %v", alice.ID, ref.InviterLevel1)
	}

	// 已绑定后不可重复绑定
	if err := svc.BindInviter(bob.ID, alice.ReferralCode); !errors.Is(err, ErrInviterBound) {
		t.Fatalf("rebind want ErrInviterBound got %v", err)
	}
}

func TestBindInviterSelfAndCycle(t *testing.T) {
	svc, authSvc, _ := setupReferralServiceTest(t)

	alice := registerReferralUser(t, authSvc, "alice", "")
	bob := registerReferralUser(t, authSvc, "bob", alice.ReferralCode)

	if err := svc.BindInviter(alice.ID, alice.ReferralCode); !errors.Is(err, ErrInviterSelf) {
		t.Fatalf("self bind want ErrInviterSelf got %v", err)
	}
	// bob 由 alice 邀请，alice 不能反向绑定 bob
	if err := svc.BindInviter(alice.ID, bob.ReferralCode); !errors.Is(err, ErrInviterCycle) {
		t.Fatalf("cycle bind want ErrInviterCycle got %v", err)
	}
	if err := svc.BindInviter(bob.ID, "no-such-code"); !errors.Is(err, ErrInviterBound) {
		t.Fatalf("bound user with bad code want ErrInviterBound got %v", err)
	}
}

func TestGetReferralInfoCounts(t *testing.T) {
	svc, authSvc, _ := setupReferralServiceTest(t)

	alice := registerReferralUser(t, authSvc, "alice", "")
	bob := registerReferralUser(t, authSvc, "bob", alice.ReferralCode)
	registerReferralUser(t, authSvc, "carol", bob.ReferralCode)
	registerReferralUser(t, authSvc, "dave", bob.ReferralCode)

	info, err := svc.GetReferralInfo(alice.ID)
	if err != nil {
		t.Fatalf("get referral info failed: %v", err)
	}
	if info.ReferralCode != alice.ReferralCode {
		t.Fatalf("referral code want %s got %s", alice.ReferralCode, info.ReferralCode)
	}
	if info.Inviter != nil {
		t.Fatalf("alice has no inviter, got %+v", info.Inviter)
	}
	if info.Level1Count != 1 || info.Level2Count != 2 {
		t.Fatalf("counts want level1=1 level2=2 got level1=%d level2=%d", info.Level1Count, info.Level2Count)
	}

	bobInfo, err := svc.GetReferralInfo(bob.ID)
	if err != nil {
		t.Fatalf("get bob referral info failed: %v", err)
	}
	if bobInfo.Inviter == nil || bobInfo.Inviter.ID != alice.ID {
		t.Fatalf("bob inviter want %d got %+v", alice.ID, bobInfo.Inviter)
	}
	if bobInfo.Level1Count != 2 || bobInfo.Level2Count != 0 {
		t.Fatalf("bob counts want level1=2 level2=0 got %+v", bobInfo)
	}
}

func TestListMyInvites(t *testing.T) {
	svc, authSvc, _ := setupReferralServiceTest(t)

	alice := registerReferralUser(t, authSvc, "alice", "")
	registerReferralUser(t, authSvc, "bob", alice.ReferralCode)
	registerReferralUser(t, authSvc, "carol", alice.ReferralCode)

	entries, total, err := svc.ListMyInvites(alice.ID, 1, 20)
	if err != nil {
		t.Fatalf("list my invites failed: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("invites want 2 got total=%d len=%d", total, len(entries))
	}
	for _, entry := range entries {
		if entry.User.Username != "bob" && entry.User.Username != "carol" {
			t.Fatalf("unexpected invite entry: %+v", entry)
		}
	}
}

func TestGetChainPermissions(t *testing.T) {
	svc, authSvc, _ := setupReferralServiceTest(t)

	admin := registerReferralUser(t, authSvc, "root", "")
	alice := registerReferralUser(t, authSvc, "alice", admin.ReferralCode)
	bob := registerReferralUser(t, authSvc, "bob", alice.ReferralCode)

	// 管理员可查任意用户
	chain, err := svc.GetChain(admin, bob.ID)
	if err != nil {
		t.Fatalf("admin get chain failed: %v", err)
	}
	if chain.InviterLevel1 == nil || chain.InviterLevel1.ID != alice.ID {
		t.Fatalf("chain level1 want %d got %+v", alice.ID, chain.InviterLevel1)
	}
	if chain.InviterLevel2 == nil || chain.InviterLevel2.ID != admin.ID {
		t.Fatalf("chain level2 want %d got %+v", admin.ID, chain.InviterLevel2)
	}

	// 普通用户只能查自己
	if _, err := svc.GetChain(alice, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("normal user foreign chain want ErrNotFound got %v", err)
	}
	if _, err := svc.GetChain(bob, bob.ID); err != nil {
		t.Fatalf("self chain failed: %v", err)
	}
}

func TestListScopedByViewer(t *testing.T) {
	svc, authSvc, _ := setupReferralServiceTest(t)

	admin := registerReferralUser(t, authSvc, "root", "")
	alice := registerReferralUser(t, authSvc, "alice", admin.ReferralCode)
	registerReferralUser(t, authSvc, "bob", alice.ReferralCode)
	registerReferralUser(t, authSvc, "carol", "")

	if admin.Role != constants.UserRoleAdmin {
		t.Fatalf("first user should be admin, got %s", admin.Role)
	}

	_, total, err := svc.List(admin, 1, 50)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 4 {
		t.Fatalf("admin sees all rows, want 4 got %d", total)
	}

	_, total, err = svc.List(alice, 1, 50)
	if err != nil {
		t.Fatalf("user list failed: %v", err)
	}
	// alice 相关：自己的关系行 + bob 的 level1 + carol 无关
	if total != 2 {
		t.Fatalf("alice sees related rows, want 2 got %d", total)
	}
}
