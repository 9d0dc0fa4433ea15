package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/pkg/database"
)

/**
 * @time: 2025/11/02
 * @file: repo_organization.go
 * @description: 组织仓储
 */

type IOrganizationRepository interface {
	// CreateWithOwner 同一事务内创建组织和 OWNER 成员行
	CreateWithOwner(org *model.Organization, owner *model.OrganizationMember) error
	GetByOrgId(orgId string) (*model.Organization, error)
	GetBySlug(slug string) (*model.Organization, error)
	Update(orgId string, updates map[string]any) error
	// DeleteCascade 级联删除组织及其成员、邀请
	DeleteCascade(orgId string) error
	ListByUser(userId string) ([]model.Organization, error)
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
	Stats(orgId string) (*model.OrgStatsResp, error)
}

type OrganizationRepo struct {
	db       database.IDatabase
	orgModel *model.Organization
}

func NewOrganizationRepo(db database.IDatabase) IOrganizationRepository {
	return &OrganizationRepo{
		db:       db,
		orgModel: &model.Organization{},
	}
}

func (or *OrganizationRepo) CreateWithOwner(org *model.Organization, owner *model.OrganizationMember) error {
	return or.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		return tx.Create(owner).Error
	})
}

// GetByOrgId 未找到返回 (nil, nil)
func (or *OrganizationRepo) GetByOrgId(orgId string) (*model.Organization, error) {
	var org model.Organization
	err := or.db.Database().Where("org_id = ?", orgId).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (or *OrganizationRepo) GetBySlug(slug string) (*model.Organization, error) {
	var org model.Organization
	err := or.db.Database().Where("slug = ?", slug).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (or *OrganizationRepo) Update(orgId string, updates map[string]any) error {
	return or.db.Database().Model(or.orgModel).
		Where("org_id = ?", orgId).
		Updates(updates).Error
}

func (or *OrganizationRepo) DeleteCascade(orgId string) error {
	return or.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("org_id = ?", orgId).Delete(&model.OrganizationInvitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("org_id = ?", orgId).Delete(&model.OrganizationMember{}).Error; err != nil {
			return err
		}
		return tx.Where("org_id = ?", orgId).Delete(&model.Organization{}).Error
	})
}

// ListByUser 用户所属的全部组织
func (or *OrganizationRepo) ListByUser(userId string) ([]model.Organization, error) {
	var orgs []model.Organization
	err := or.db.Database().
		Joins("JOIN t_organization_member m ON m.org_id = t_organization.org_id").
		Where("m.user_id = ?", userId).
		Find(&orgs).Error
	return orgs, err
}

func (or *OrganizationRepo) Count() (int64, error) {
	var count int64
	err := or.db.Database().Model(or.orgModel).Count(&count).Error
	return count, err
}

func (or *OrganizationRepo) SlugExists(slug string) (bool, error) {
	var count int64
	err := or.db.Database().Model(or.orgModel).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (or *OrganizationRepo) Stats(orgId string) (*model.OrgStatsResp, error) {
	db := or.db.Database()
	stats := &model.OrgStatsResp{RoleCounts: map[string]int64{}}

	if err := db.Model(&model.OrganizationMember{}).
		Where("org_id = ?", orgId).Count(&stats.MemberCount).Error; err != nil {
		return nil, err
	}

	for _, role := range []rbac.Role{rbac.RoleOwner, rbac.RoleAdmin, rbac.RoleStaff, rbac.RoleClient} {
		var n int64
		if err := db.Model(&model.OrganizationMember{}).
			Where("org_id = ? AND role = ?", orgId, string(role)).Count(&n).Error; err != nil {
			return nil, err
		}
		stats.RoleCounts[string(role)] = n
	}

	if err := db.Model(&model.OrganizationInvitation{}).
		Where("org_id = ? AND status = ?", orgId, model.InviteStatusPending).
		Count(&stats.PendingInvites).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Task{}).
		Where("org_id = ?", orgId).Count(&stats.TaskCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
