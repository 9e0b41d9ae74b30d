package models

import (
	"time"
)

// User 用户表
type User struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                   // 主键
	Username           string     `gorm:"uniqueIndex;not null" json:"username"`                   // 登录账号（创建后不可变更）
	PasswordHash       string     `gorm:"not null" json:"-"`                                      // 密码哈希（不返回给前端）
	Nickname           string     `gorm:"default:''" json:"nickname"`                             // 昵称
	Phone              string     `gorm:"type:varchar(32);index" json:"phone"`                    // 手机号（可用于登录）
	WechatID           string     `gorm:"type:varchar(64)" json:"wechat_id"`                      // 微信号
	Role               string     `gorm:"type:varchar(20);not null;default:'normal'" json:"role"` // 角色（admin/agent/normal）
	ReferralCode       string     `gorm:"type:varchar(32);uniqueIndex" json:"referral_code"`      // 推荐码
	InviterID          *uint      `gorm:"index" json:"inviter_id"`                                // 直接邀请人ID
	Status             string     `gorm:"default:'active'" json:"status"`                         // 账号状态（active/disabled）
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`                            // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`                                         // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time `json:"last_login_at"`                                          // 最后登录时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt          time.Time  `gorm:"index" json:"updated_at"`                                // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
