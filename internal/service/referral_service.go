package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/ks-platform/passport/internal/config"
	"github.com/ks-platform/passport/internal/constants"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/repository"
)

// ReferralService 邀请关系服务
type ReferralService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	referralRepo repository.ReferralRepository
}

// NewReferralService 创建邀请关系服务
func NewReferralService(cfg *config.Config, userRepo repository.UserRepository, referralRepo repository.ReferralRepository) *ReferralService {
	return &ReferralService{
		cfg:          cfg,
		userRepo:     userRepo,
		referralRepo: referralRepo,
	}
}

// UserSummary 用户摘要信息
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

// ReferralInfo 用户推荐信息
type ReferralInfo struct {
	ReferralCode string       `json:"referral_code"`
	Inviter      *UserSummary `json:"inviter"`
	Level1Count  int64        `json:"level1_count"`
	Level2Count  int64        `json:"level2_count"`
}

// ReferralChain 两级邀请链
type ReferralChain struct {
	User          UserSummary  `json:"user"`
	InviterLevel1 *UserSummary `json:"inviter_level1"`
	InviterLevel2 *UserSummary `json:"inviter_level2"`
}

// InviteEntry 被邀请用户条目
type InviteEntry struct {
	User      UserSummary `json:"user"`
	InvitedAt time.Time   `json:"invited_at"`
}

// ResolveInviter 按邀请码解析邀请人
// 解析顺序：推荐码 -> 用户ID -> 用户名；空邀请码表示无邀请关系。
func (s *ReferralService) ResolveInviter(inviteCode string) (*models.User, error) {
	return resolveInviterByCode(s.userRepo, inviteCode)
}

// BindInviter 注册后补绑邀请人
// 仅允许绑定一次，且禁止绑定自己或形成直接互邀环。
func (s *ReferralService) BindInviter(userID uint, inviteCode string) error {
	if userID == 0 {
		return ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.InviterID != nil {
		return ErrInviterBound
	}

	trimmed := strings.TrimSpace(inviteCode)
	if trimmed == "" {
		return ErrInviteCodeInvalid
	}
	inviter, err := resolveInviterByCode(s.userRepo, trimmed)
	if err != nil {
		return err
	}
	if inviter == nil {
		return ErrInviteCodeInvalid
	}
	if inviter.ID == userID {
		return ErrInviterSelf
	}
	if inviter.InviterID != nil && *inviter.InviterID == userID {
		return ErrInviterCycle
	}

	now := time.Now()
	inviterID := inviter.ID
	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"inviter_id": inviterID,
		"updated_at": now,
	}); err != nil {
		return err
	}

	ref := &models.UserReferral{
		UserID:        userID,
		InviterLevel1: &inviterID,
		InviterLevel2: inviter.InviterID,
		CreatedAt:     now,
	}
	return s.referralRepo.Upsert(ref)
}

// GetReferralInfo 获取用户推荐信息（推荐码、邀请人、一二级邀请人数）
func (s *ReferralService) GetReferralInfo(userID uint) (*ReferralInfo, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	info := &ReferralInfo{ReferralCode: user.ReferralCode}

	if user.InviterID != nil {
		inviter, err := s.userRepo.GetByID(*user.InviterID)
		if err != nil {
			return nil, err
		}
		if inviter != nil {
			info.Inviter = buildUserSummary(inviter)
		}
	}

	level1, err := s.referralRepo.CountByLevel1(userID)
	if err != nil {
		return nil, err
	}
	level2, err := s.referralRepo.CountByLevel2(userID)
	if err != nil {
		return nil, err
	}
	info.Level1Count = level1
	info.Level2Count = level2
	return info, nil
}

// ListMyInvites 查询当前用户直接邀请的用户列表
func (s *ReferralService) ListMyInvites(userID uint, page, pageSize int) ([]InviteEntry, int64, error) {
	if userID == 0 {
		return []InviteEntry{}, 0, nil
	}
	refs, total, err := s.referralRepo.ListByLevel1(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.UserID)
	}
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	entries := make([]InviteEntry, 0, len(refs))
	for _, ref := range refs {
		u, ok := byID[ref.UserID]
		if !ok {
			continue
		}
		entries = append(entries, InviteEntry{
			User:      *buildUserSummary(&u),
			InvitedAt: ref.CreatedAt,
		})
	}
	return entries, total, nil
}

// GetChain 查询某用户的两级邀请链
// 管理员可查任意用户，普通用户仅可查自己。
func (s *ReferralService) GetChain(viewer *models.User, targetID uint) (*ReferralChain, error) {
	if viewer == nil || targetID == 0 {
		return nil, ErrNotFound
	}
	if viewer.Role != constants.UserRoleAdmin && viewer.ID != targetID {
		return nil, ErrNotFound
	}

	target, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	chain := &ReferralChain{User: *buildUserSummary(target)}

	ref, err := s.referralRepo.GetByUserID(targetID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return chain, nil
	}

	if ref.InviterLevel1 != nil {
		if inviter, err := s.userRepo.GetByID(*ref.InviterLevel1); err != nil {
			return nil, err
		} else if inviter != nil {
			chain.InviterLevel1 = buildUserSummary(inviter)
		}
	}
	if ref.InviterLevel2 != nil {
		if inviter, err := s.userRepo.GetByID(*ref.InviterLevel2); err != nil {
			return nil, err
		} else if inviter != nil {
			chain.InviterLevel2 = buildUserSummary(inviter)
		}
	}
	return chain, nil
}

// List 邀请关系列表
// 管理员可见全部，普通用户仅可见与自己相关的关系。
func (s *ReferralService) List(viewer *models.User, page, pageSize int) ([]models.UserReferral, int64, error) {
	if viewer == nil {
		return []models.UserReferral{}, 0, nil
	}
	filter := repository.ReferralListFilter{Page: page, PageSize: pageSize}
	if viewer.Role != constants.UserRoleAdmin {
		filter.RelatedUserID = viewer.ID
	}
	return s.referralRepo.List(filter)
}

func buildUserSummary(user *models.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Nickname: user.Nickname,
	}
}

// resolveInviterByCode 注册与补绑共用的邀请码解析
func resolveInviterByCode(userRepo repository.UserRepository, inviteCode string) (*models.User, error) {
	trimmed := strings.TrimSpace(inviteCode)
	if trimmed == "" {
		return nil, nil
	}

	inviter, err := userRepo.GetByReferralCode(trimmed)
	if err != nil {
		return nil, err
	}
	if inviter != nil {
		return inviter, nil
	}

	if id, convErr := strconv.ParseUint(trimmed, 10, 32); convErr == nil && id > 0 {
		inviter, err = userRepo.GetByID(uint(id))
		if err != nil {
			return nil, err
		}
		if inviter != nil {
			return inviter, nil
		}
	}

	inviter, err = userRepo.GetByUsername(trimmed)
	if err != nil {
		return nil, err
	}
	if inviter != nil {
		return inviter, nil
	}

	return nil, ErrInviteCodeInvalid
}
