package admin

import (
	"errors"
	"strings"

	"github.com/ks-platform/passport/internal/http/response"
	"github.com/ks-platform/passport/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAdminRequest 密钥创建管理员请求
type CreateAdminRequest struct {
	Secret   string `json:"secret"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname"`
	Phone    string `json:"phone"`
	WechatID string `json:"wechat_id"`
}

// CreateAdmin 使用共享密钥创建管理员账号
// 密钥通过 admin_secret 查询参数传递，也兼容请求体内的 secret 字段。
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	secret := strings.TrimSpace(c.Query("admin_secret"))
	if secret == "" {
		secret = req.Secret
	}

	user, token, expiresAt, err := h.AdminService.CreateAdmin(secret, service.CreateAdminInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Phone:    req.Phone,
		WechatID: req.WechatID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminSecretInvalid):
			respondError(c, response.CodeForbidden, "error.admin_secret_invalid", nil)
		case errors.Is(err, service.ErrAdminExists):
			respondError(c, response.CodeBadRequest, "error.admin_exists", nil)
		case errors.Is(err, service.ErrInvalidUsername):
			respondError(c, response.CodeBadRequest, "error.username_invalid", nil)
		case errors.Is(err, service.ErrUsernameExists):
			respondError(c, response.CodeBadRequest, "error.username_exists", nil)
		case errors.Is(err, service.ErrPhoneExists):
			respondError(c, response.CodeBadRequest, "error.phone_exists", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, "error.password_weak", nil)
		default:
			respondError(c, response.CodeInternal, "error.register_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"nickname":      user.Nickname,
			"role":          user.Role,
			"referral_code": user.ReferralCode,
			"status":        user.Status,
			"created_at":    user.CreatedAt,
		},
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
