package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/pkg/database"
)

/**
 * @time: 2025/11/02
 * @file: repo_invitation.go
 * @description: 组织邀请仓储
 */

type IInvitationRepository interface {
	Create(invite *model.OrganizationInvitation) error
	GetByToken(token string) (*model.OrganizationInvitation, error)
	GetByInviteId(inviteId string) (*model.OrganizationInvitation, error)
	// GetActiveByOrgEmail 组织内该邮箱的 PENDING 邀请
	GetActiveByOrgEmail(orgId, email string) (*model.OrganizationInvitation, error)
	ListByOrg(orgId, status string, offset, pageSize int) ([]model.OrganizationInvitation, int64, error)
	// MarkRevoked / MarkExpired / MarkAccepted 仅作用于 PENDING 行,
	// 竞争失败返回 (false, nil)
	MarkRevoked(inviteId string) (bool, error)
	MarkExpired(inviteId string) (bool, error)
	MarkAccepted(inviteId, acceptedBy string) (bool, error)
	// AcceptTx 单事务: PENDING 条件翻转为 ACCEPTED + 插入成员行
	AcceptTx(inviteId, acceptedBy string, member *model.OrganizationMember) (bool, error)
}

type InvitationRepo struct {
	db          database.IDatabase
	inviteModel *model.OrganizationInvitation
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{
		db:          db,
		inviteModel: &model.OrganizationInvitation{},
	}
}

func (ir *InvitationRepo) Create(invite *model.OrganizationInvitation) error {
	return ir.db.Database().Create(invite).Error
}

// GetByToken 未找到返回 (nil, nil)
func (ir *InvitationRepo) GetByToken(token string) (*model.OrganizationInvitation, error) {
	var inv model.OrganizationInvitation
	err := ir.db.Database().Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (ir *InvitationRepo) GetByInviteId(inviteId string) (*model.OrganizationInvitation, error) {
	var inv model.OrganizationInvitation
	err := ir.db.Database().Where("invite_id = ?", inviteId).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (ir *InvitationRepo) GetActiveByOrgEmail(orgId, email string) (*model.OrganizationInvitation, error) {
	var inv model.OrganizationInvitation
	err := ir.db.Database().
		Where("org_id = ? AND email = ? AND status = ?", orgId, email, model.InviteStatusPending).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (ir *InvitationRepo) ListByOrg(orgId, status string, offset, pageSize int) ([]model.OrganizationInvitation, int64, error) {
	var invites []model.OrganizationInvitation
	var total int64

	query := ir.db.Database().Model(ir.inviteModel).Where("org_id = ?", orgId)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&invites).Error
	return invites, total, err
}

// 状态迁移统一走 PENDING 条件更新, RowsAffected 判定并发竞争
func (ir *InvitationRepo) markStatus(inviteId, status string) (bool, error) {
	result := ir.db.Database().Model(ir.inviteModel).
		Where("invite_id = ? AND status = ?", inviteId, model.InviteStatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (ir *InvitationRepo) MarkRevoked(inviteId string) (bool, error) {
	return ir.markStatus(inviteId, model.InviteStatusRevoked)
}

func (ir *InvitationRepo) MarkExpired(inviteId string) (bool, error) {
	return ir.markStatus(inviteId, model.InviteStatusExpired)
}

func (ir *InvitationRepo) MarkAccepted(inviteId, acceptedBy string) (bool, error) {
	result := ir.db.Database().Model(ir.inviteModel).
		Where("invite_id = ? AND status = ?", inviteId, model.InviteStatusPending).
		Updates(map[string]any{
			"status":      model.InviteStatusAccepted,
			"accepted_by": acceptedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AcceptTx 并发双接受时只有一个事务能翻转状态行, 另一个读到 RowsAffected=0 整体回滚
func (ir *InvitationRepo) AcceptTx(inviteId, acceptedBy string, member *model.OrganizationMember) (bool, error) {
	accepted := false
	err := ir.db.Database().Transaction(func(tx *gorm.DB) error {
		result := tx.Model(ir.inviteModel).
			Where("invite_id = ? AND status = ?", inviteId, model.InviteStatusPending).
			Updates(map[string]any{
				"status":      model.InviteStatusAccepted,
				"accepted_by": acceptedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Create(member).Error; err != nil {
			return err
		}
		accepted = true
		return nil
	})
	return accepted, err
}
