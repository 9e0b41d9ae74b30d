package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ks-platform/passport/internal/cache"
	"github.com/ks-platform/passport/internal/config"
	"github.com/ks-platform/passport/internal/constants"
	"github.com/ks-platform/passport/internal/models"
	"github.com/ks-platform/passport/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxUsernameLength = 50

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	referralRepo repository.ReferralRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, referralRepo repository.ReferralRepository) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		referralRepo: referralRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(resolveJWTExpireMinutes(s.cfg.JWT)) * time.Minute)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// RegisterInput 用户注册输入
type RegisterInput struct {
	Username   string
	Password   string
	Nickname   string
	Phone      string
	WechatID   string
	InviteCode string
}

// Register 用户注册
// 首个注册用户在建表事务内判定并授予管理员角色，推荐码在拿到主键后生成。
func (s *UserAuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
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

	inviter, err := s.resolveInviter(input.InviteCode)
	if err != nil {
		return nil, "", time.Time{}, err
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
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if inviter != nil {
		inviterID := inviter.ID
		user.InviterID = &inviterID
	}

	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		txUsers := s.userRepo.WithTx(tx)

		count, err := txUsers.Count()
		if err != nil {
			return err
		}
		user.Role = constants.UserRoleNormal
		if count == 0 {
			user.Role = constants.UserRoleAdmin
		}

		if err := txUsers.Create(user); err != nil {
			// 并发注册同名用户时依赖数据库唯一索引兜底
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

		ref := &models.UserReferral{
			UserID:    user.ID,
			CreatedAt: now,
		}
		if inviter != nil {
			level1 := inviter.ID
			ref.InviterLevel1 = &level1
			ref.InviterLevel2 = inviter.InviterID
		}
		return s.referralRepo.WithTx(tx).Create(ref)
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login 用户登录（用户名或手机号）
func (s *UserAuthService) Login(identifier, password string) (*models.User, string, time.Time, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsernameOrPhone(identifier)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	// 账号不存在与密码错误返回同一错误，避免探测已注册账号
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// ChangePassword 登录态修改密码
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
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

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	now := time.Now()
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

// resolveInviter 按邀请码解析邀请人，空邀请码表示无邀请关系
// 解析顺序：推荐码 -> 用户ID -> 用户名
func (s *UserAuthService) resolveInviter(inviteCode string) (*models.User, error) {
	return resolveInviterByCode(s.userRepo, inviteCode)
}

func normalizeUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", ErrInvalidUsername
	}
	if len([]rune(trimmed)) > maxUsernameLength {
		return "", ErrInvalidUsername
	}
	return trimmed, nil
}

func resolveJWTExpireMinutes(cfg config.JWTConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 30
	}
	return cfg.ExpireMinutes
}

func formatReferralCode(cfg config.ReferralConfig, userID uint) string {
	prefix := strings.TrimSpace(cfg.CodePrefix)
	if prefix == "" {
		prefix = constants.ReferralCodePrefixDefault
	}
	digits := cfg.CodeDigits
	if digits <= 0 {
		digits = constants.ReferralCodeDigitsDefault
	}
	return fmt.Sprintf("%s%0*d", prefix, digits, userID)
}
