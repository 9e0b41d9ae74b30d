package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/ks-platform/passport/internal/cache"
	"github.com/ks-platform/passport/internal/config"
	"github.com/ks-platform/passport/internal/constants"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService 管理员服务
type AdminService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	referralRepo repository.ReferralRepository
	authService  *UserAuthService
}

// NewAdminService 创建管理员服务
func NewAdminService(cfg *config.Config, userRepo repository.UserRepository, referralRepo repository.ReferralRepository, authService *UserAuthService) *AdminService {
	return &AdminService{
		cfg:          cfg,
		userRepo:     userRepo,
		referralRepo: referralRepo,
		authService:  authService,
	}
}

// CreateAdminInput 创建管理员输入
type CreateAdminInput struct {
	Username string
	Password string
	Nickname string
	Phone    string
	WechatID string
}

// CreateAdmin 使用共享密钥创建管理员账号
// 密钥错误时不产生任何用户记录；默认只允许存在一个密钥创建的管理员。
func (s *AdminService) CreateAdmin(secret string, input CreateAdminInput) (*models.User, string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.Admin.Secret)) != 1 {
		return nil, "", time.Time{}, ErrAdminSecretInvalid
	}

	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	if !s.cfg.Admin.AllowMultiple {
		count, err := s.userRepo.CountByRole(constants.UserRoleAdmin)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		if count > 0 {
			return nil, "", time.Time{}, ErrAdminExists
		}
	}

	exist, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrUsernameExists
	}

	phone := strings.TrimSpace(input.Phone)
	if phone != "" {
		existPhone, err := s.userRepo.GetByPhone(phone)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		if existPhone != nil {
			return nil, "", time.Time{}, ErrPhoneExists
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Nickname:     strings.TrimSpace(input.Nickname),
		Phone:        phone,
		WechatID:     strings.TrimSpace(input.WechatID),
		Role:         constants.UserRoleAdmin,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		txUsers := s.userRepo.WithTx(tx)
		if err := txUsers.Create(user); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrUsernameExists
			}
			return err
		}
		code := formatReferralCode(s.cfg.Referral, user.ID)
		if err := txUsers.UpdateFields(user.ID, map[string]interface{}{"referral_code": code}); err != nil {
			return err
		}
		user.ReferralCode = code
		// 管理员不参与邀请链路，关系行保留空快照
		return s.referralRepo.WithTx(tx).Create(&models.UserReferral{
			UserID:    user.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.authService.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// GetUser 获取用户详情
func (s *AdminService) GetUser(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ListUsers 用户列表
func (s *AdminService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// UpdateUserInput 管理端更新用户输入
type UpdateUserInput struct {
	Role     *string
	Status   *string
	Nickname *string
	Phone    *string
	WechatID *string
}

// UpdateUser 管理端更新用户角色、状态与资料
// 禁用用户时递增 token_version 并设置失效时间戳，使已签发 Token 立即失效。
func (s *AdminService) UpdateUser(id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}

	if input.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*input.Role))
		if !isValidRole(role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = role
		user.Role = role
	}

	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !isValidStatus(status) {
			return nil, ErrInvalidStatus
		}
		updates["status"] = status
		user.Status = status
		if status == constants.UserStatusDisabled {
			user.TokenVersion++
			user.TokenInvalidBefore = &now
			updates["token_version"] = user.TokenVersion
			updates["token_invalid_before"] = now
		}
	}

	if input.Nickname != nil {
		nickname := strings.TrimSpace(*input.Nickname)
		updates["nickname"] = nickname
		user.Nickname = nickname
	}

	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone != "" {
			exist, err := s.userRepo.GetByPhone(phone)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != id {
				return nil, ErrPhoneExists
			}
		}
		updates["phone"] = phone
		user.Phone = phone
	}

	if input.WechatID != nil {
		wechatID := strings.TrimSpace(*input.WechatID)
		updates["wechat_id"] = wechatID
		user.WechatID = wechatID
	}

	if err := s.userRepo.UpdateFields(id, updates); err != nil {
		return nil, err
	}
	user.UpdatedAt = now
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

// BatchUpdateStatus 批量更新用户状态
func (s *AdminService) BatchUpdateStatus(userIDs []uint, status string) error {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if !isValidStatus(normalized) {
		return ErrInvalidStatus
	}
	if err := s.userRepo.BatchUpdateStatus(userIDs, normalized); err != nil {
		return err
	}
	// 快照失效，下次鉴权回源数据库
	for _, id := range userIDs {
		_ = cache.DelUserAuthState(context.Background(), id)
	}
	return nil
}

func isValidRole(role string) bool {
	switch role {
	case constants.UserRoleAdmin, constants.UserRoleAgent, constants.UserRoleNormal:
		return true
	default:
		return false
	}
}

func isValidStatus(status string) bool {
	switch status {
	case constants.UserStatusActive, constants.UserStatusDisabled:
		return true
	default:
		return false
	}
}
