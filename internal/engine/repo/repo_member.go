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
 * @file: repo_member.go
 * @description: 组织成员仓储
 */

// MemberWithUser 成员及其用户信息, 列表查询用
type MemberWithUser struct {
	model.OrganizationMember
	Username string `gorm:"column:username"`
	Email    string `gorm:"column:email"`
}

type IMemberRepository interface {
	Add(member *model.OrganizationMember) error
	GetByUserAndOrg(orgId, userId string) (*model.OrganizationMember, error)
	ListByOrg(orgId, role string, offset, pageSize int) ([]MemberWithUser, int64, error)
	// UpdateRole 条件更新, 旧角色不匹配时返回 (false, nil)
	UpdateRole(orgId, userId, expectedOldRole, newRole string) (bool, error)
	Remove(orgId, userId string) error
	CountByRole(orgId, role string) (int64, error)
	Count(orgId string) (int64, error)
	// TransferOwnership 单事务内完成降级、升级、组织所有者三处写入
	TransferOwnership(orgId, fromUserId, toUserId string) error
}

type MemberRepo struct {
	db          database.IDatabase
	memberModel *model.OrganizationMember
}

func NewMemberRepo(db database.IDatabase) IMemberRepository {
	return &MemberRepo{
		db:          db,
		memberModel: &model.OrganizationMember{},
	}
}

func (mr *MemberRepo) Add(member *model.OrganizationMember) error {
	return mr.db.Database().Create(member).Error
}

// GetByUserAndOrg 未找到返回 (nil, nil)
func (mr *MemberRepo) GetByUserAndOrg(orgId, userId string) (*model.OrganizationMember, error) {
	var m model.OrganizationMember
	err := mr.db.Database().Where("org_id = ? AND user_id = ?", orgId, userId).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (mr *MemberRepo) ListByOrg(orgId, role string, offset, pageSize int) ([]MemberWithUser, int64, error) {
	var members []MemberWithUser
	var total int64

	query := mr.db.Database().Model(mr.memberModel).Where("t_organization_member.org_id = ?", orgId)
	if role != "" {
		query = query.Where("t_organization_member.role = ?", role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("t_organization_member.*, u.username, u.email").
		Joins("JOIN t_user u ON u.user_id = t_organization_member.user_id").
		Order("t_organization_member.created_at ASC").
		Offset(offset).Limit(pageSize).
		Find(&members).Error
	return members, total, err
}

// UpdateRole 带旧角色前置条件的更新, 防止并发下基于过期快照改写;
// RowsAffected 为 0 表示旧角色已不匹配
func (mr *MemberRepo) UpdateRole(orgId, userId, expectedOldRole, newRole string) (bool, error) {
	result := mr.db.Database().Model(mr.memberModel).
		Where("org_id = ? AND user_id = ? AND role = ?", orgId, userId, expectedOldRole).
		Update("role", newRole)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (mr *MemberRepo) Remove(orgId, userId string) error {
	return mr.db.Database().Where("org_id = ? AND user_id = ?", orgId, userId).
		Delete(mr.memberModel).Error
}

func (mr *MemberRepo) CountByRole(orgId, role string) (int64, error) {
	var count int64
	err := mr.db.Database().Model(mr.memberModel).
		Where("org_id = ? AND role = ?", orgId, role).Count(&count).Error
	return count, err
}

func (mr *MemberRepo) Count(orgId string) (int64, error) {
	var count int64
	err := mr.db.Database().Model(mr.memberModel).
		Where("org_id = ?", orgId).Count(&count).Error
	return count, err
}

// TransferOwnership 三处写入必须同事务: 原 OWNER 降为 ADMIN、新成员升为 OWNER、
// 组织表 owner_user_id 指向新所有者。任一行前置条件失效则整体回滚。
func (mr *MemberRepo) TransferOwnership(orgId, fromUserId, toUserId string) error {
	return mr.db.Database().Transaction(func(tx *gorm.DB) error {
		demote := tx.Model(mr.memberModel).
			Where("org_id = ? AND user_id = ? AND role = ?", orgId, fromUserId, string(rbac.RoleOwner)).
			Update("role", string(rbac.RoleAdmin))
		if demote.Error != nil {
			return demote.Error
		}
		if demote.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		promote := tx.Model(mr.memberModel).
			Where("org_id = ? AND user_id = ?", orgId, toUserId).
			Update("role", string(rbac.RoleOwner))
		if promote.Error != nil {
			return promote.Error
		}
		if promote.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&model.Organization{}).
			Where("org_id = ?", orgId).
			Update("owner_user_id", toUserId).Error
	})
}
