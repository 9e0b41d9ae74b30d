package models

import "time"

// UserReferral 两级邀请关系表
// 说明：inviter_level2 在建立关系时快照自一级邀请人的 inviter_id，之后不再重算。
type UserReferral struct {
	UserID        uint      `gorm:"primarykey" json:"user_id"`       // 被邀请用户ID
	InviterLevel1 *uint     `gorm:"index" json:"inviter_level1"`     // 一级邀请人ID
	InviterLevel2 *uint     `gorm:"index" json:"inviter_level2"`     // 二级邀请人ID（快照）
	CreatedAt     time.Time `gorm:"index" json:"created_at"`         // 建立时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户信息
}

// TableName 指定表名
func (UserReferral) TableName() string {
	return "user_referrals"
}
