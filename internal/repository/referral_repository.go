package repository

import (
	"errors"

	"github.com/ks-platform/passport/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferralRepository 邀请关系数据访问接口
type ReferralRepository interface {
	WithTx(tx *gorm.DB) ReferralRepository

	GetByUserID(userID uint) (*models.UserReferral, error)
	Create(ref *models.UserReferral) error
	Upsert(ref *models.UserReferral) error
	ListByLevel1(inviterID uint, page, pageSize int) ([]models.UserReferral, int64, error)
	CountByLevel1(inviterID uint) (int64, error)
	CountByLevel2(inviterID uint) (int64, error)
	List(filter ReferralListFilter) ([]models.UserReferral, int64, error)
}

// GormReferralRepository GORM 实现
type GormReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository 创建邀请关系仓库
func NewReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReferralRepository) WithTx(tx *gorm.DB) ReferralRepository {
	if tx == nil {
		return r
	}
	return &GormReferralRepository{db: tx}
}

// GetByUserID 获取用户的邀请关系
func (r *GormReferralRepository) GetByUserID(userID uint) (*models.UserReferral, error) {
	if userID == 0 {
		return nil, nil
	}
	var ref models.UserReferral
	if err := r.db.Where("user_id = ?", userID).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

// Create 创建邀请关系
func (r *GormReferralRepository) Create(ref *models.UserReferral) error {
	if ref == nil {
		return nil
	}
	return r.db.Create(ref).Error
}

// Upsert 创建或覆盖邀请关系（补绑邀请人场景）
func (r *GormReferralRepository) Upsert(ref *models.UserReferral) error {
	if ref == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"inviter_level1", "inviter_level2"}),
	}).Create(ref).Error
}

// ListByLevel1 查询某人直接邀请的用户
func (r *GormReferralRepository) ListByLevel1(inviterID uint, page, pageSize int) ([]models.UserReferral, int64, error) {
	query := r.db.Model(&models.UserReferral{}).Where("inviter_level1 = ?", inviterID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)

	var refs []models.UserReferral
	if err := query.Order("created_at DESC").Find(&refs).Error; err != nil {
		return nil, 0, err
	}
	return refs, total, nil
}

// CountByLevel1 统计一级邀请人数
func (r *GormReferralRepository) CountByLevel1(inviterID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.UserReferral{}).Where("inviter_level1 = ?", inviterID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByLevel2 统计二级邀请人数
func (r *GormReferralRepository) CountByLevel2(inviterID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.UserReferral{}).Where("inviter_level2 = ?", inviterID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List 邀请关系列表
func (r *GormReferralRepository) List(filter ReferralListFilter) ([]models.UserReferral, int64, error) {
	query := r.db.Model(&models.UserReferral{})

	if filter.RelatedUserID != 0 {
		query = query.Where(
			"user_id = ? OR inviter_level1 = ? OR inviter_level2 = ?",
			filter.RelatedUserID, filter.RelatedUserID, filter.RelatedUserID,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var refs []models.UserReferral
	if err := query.Order("created_at DESC").Find(&refs).Error; err != nil {
		return nil, 0, err
	}
	return refs, total, nil
}
