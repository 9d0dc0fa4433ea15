package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/internal/engine/repo"
	"github.com/worklane/worklane/pkg/log"
)

/**
 * @time: 2025/11/02
 * @file: service_ownership.go
 * @description: 所有权转移
 */

type OwnershipService struct {
	orgRepo    repo.IOrganizationRepository
	memberRepo repo.IMemberRepository
}

func NewOwnershipService(orgRepo repo.IOrganizationRepository, memberRepo repo.IMemberRepository) *OwnershipService {
	return &OwnershipService{
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
	}
}

// Transfer 所有权转移: 仅现任 OWNER 可发起, 接收方必须已是成员,
// 不能转给自己。降级/升级/组织所有者三处写入在仓储层单事务完成。
func (ts *OwnershipService) Transfer(orgId, actorUserId, toUserId string) error {
	if toUserId == "" {
		return core.ErrValidation.WithMessage("toUserId is required")
	}
	if toUserId == actorUserId {
		return core.ErrValidation.WithMessage("cannot transfer ownership to yourself")
	}

	org, err := ts.orgRepo.GetByOrgId(orgId)
	if err != nil {
		return err
	}
	if org == nil {
		return core.ErrOrgNotFound
	}

	actor, err := ts.memberRepo.GetByUserAndOrg(orgId, actorUserId)
	if err != nil {
		return err
	}
	if actor == nil {
		return core.ErrNotMember
	}
	if rbac.Role(actor.Role) != rbac.RoleOwner {
		return core.ErrOwnerOnlyTransfer
	}

	recipient, err := ts.memberRepo.GetByUserAndOrg(orgId, toUserId)
	if err != nil {
		return err
	}
	if recipient == nil {
		return core.ErrMemberNotFound.WithMessage("recipient is not a member of this organization")
	}

	if err := ts.memberRepo.TransferOwnership(orgId, actorUserId, toUserId); err != nil {
		// 事务内前置条件失效: 发起方已不再是 OWNER 或接收方已离开
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return core.ErrOwnerOnlyTransfer.WithMessage("ownership changed concurrently, retry")
		}
		return err
	}

	log.Infow("ownership transferred", "orgId", orgId, "from", actorUserId, "to", toUserId)
	return nil
}
