// Copyright 2025 Worklane Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/internal/engine/repo"
	"github.com/worklane/worklane/pkg/log"
)

/**
 * @time: 2025/11/02
 * @file: service_member.go
 * @description: 组织成员管理: 列表、改角色、移除、退出
 */

type MemberService struct {
	memberRepo repo.IMemberRepository
	workRepo   repo.IWorkRepository
}

func NewMemberService(memberRepo repo.IMemberRepository, workRepo repo.IWorkRepository) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		workRepo:   workRepo,
	}
}

// Membership 调用者在组织内的成员行, 非成员返回 NOT_MEMBER
func (ms *MemberService) Membership(orgId, userId string) (*model.OrganizationMember, error) {
	member, err := ms.memberRepo.GetByUserAndOrg(orgId, userId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, core.ErrNotMember
	}
	return member, nil
}

// List 分页成员列表, ADMIN 及以上可见, 每行附带 canModify 供前端渲染
func (ms *MemberService) List(orgId, actorUserId string, req *model.ListMembersReq) (*model.PageResp, error) {
	actor, err := ms.Membership(orgId, actorUserId)
	if err != nil {
		return nil, err
	}
	actorRole := rbac.Role(actor.Role)
	if !actorRole.AtLeast(rbac.RoleAdmin) {
		return nil, core.ErrInsufficientPermissions
	}

	if req.Role != "" && !rbac.Role(req.Role).Valid() {
		return nil, core.ErrValidation.WithMessage("unknown role filter")
	}

	pageNum, pageSize := req.PageNum, req.PageSize
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	members, total, err := ms.memberRepo.ListByOrg(orgId, req.Role, (pageNum-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]model.MemberResp, 0, len(members))
	for _, m := range members {
		list = append(list, model.MemberResp{
			MemberId:  m.MemberId,
			UserId:    m.UserId,
			Username:  m.Username,
			Email:     m.Email,
			Role:      m.Role,
			JoinedAt:  m.CreatedAt.UnixMilli(),
			CanModify: rbac.CanModifyMember(actorUserId, actorRole, m.UserId, rbac.Role(m.Role)),
		})
	}
	return &model.PageResp{List: list, Total: total}, nil
}

// UpdateRole 改角色。OWNER 角色不经此处授予, 必须走所有权转移。
func (ms *MemberService) UpdateRole(orgId, actorUserId, targetUserId string, req *model.UpdateMemberRoleReq) error {
	newRole := rbac.Role(req.Role)
	if !newRole.Valid() {
		return core.ErrValidation.WithMessage("unknown role")
	}
	if newRole == rbac.RoleOwner {
		return core.ErrOwnerOnlyTransfer
	}

	actor, err := ms.Membership(orgId, actorUserId)
	if err != nil {
		return err
	}
	target, err := ms.memberRepo.GetByUserAndOrg(orgId, targetUserId)
	if err != nil {
		return err
	}
	if target == nil {
		return core.ErrMemberNotFound
	}

	// 自我修改检查先于权重比较
	if actorUserId == targetUserId {
		return core.ErrCannotModifySelf
	}
	if !rbac.CanModifyMember(actorUserId, rbac.Role(actor.Role), targetUserId, rbac.Role(target.Role)) {
		return core.ErrCannotModifyHigherRole
	}
	if !rbac.CanAssignRole(rbac.Role(actor.Role), newRole) {
		return core.ErrInsufficientPermissions
	}

	updated, err := ms.memberRepo.UpdateRole(orgId, targetUserId, target.Role, string(newRole))
	if err != nil {
		return err
	}
	if !updated {
		// 并发下角色已被他人改写, 让调用方基于新状态重试
		return core.ErrMemberNotFound.WithMessage("member role changed concurrently, retry")
	}
	return nil
}

// Remove 移除成员。OWNER 不可被移除; 成员名下仍有工单时需 reassignTo,
// 或显式 force (工单转给操作者)。
func (ms *MemberService) Remove(orgId, actorUserId, targetUserId string, req *model.RemoveMemberReq) error {
	actor, err := ms.Membership(orgId, actorUserId)
	if err != nil {
		return err
	}
	target, err := ms.memberRepo.GetByUserAndOrg(orgId, targetUserId)
	if err != nil {
		return err
	}
	if target == nil {
		return core.ErrMemberNotFound
	}

	if actorUserId == targetUserId {
		return core.ErrCannotModifySelf
	}
	if rbac.Role(target.Role) == rbac.RoleOwner {
		return core.ErrCannotRemoveOwner
	}
	if !rbac.CanModifyMember(actorUserId, rbac.Role(actor.Role), targetUserId, rbac.Role(target.Role)) {
		return core.ErrCannotModifyHigherRole
	}

	reassignTo := req.ReassignTo
	if reassignTo == "" && req.Force {
		reassignTo = actorUserId
	}
	if err := ms.resolveWorkRecords(orgId, targetUserId, reassignTo); err != nil {
		return err
	}

	if err := ms.memberRepo.Remove(orgId, targetUserId); err != nil {
		return err
	}
	log.Infow("member removed", "orgId", orgId, "userId", targetUserId, "by", actorUserId)
	return nil
}

// Leave 成员主动退出。唯一 OWNER 必须先转移所有权。
func (ms *MemberService) Leave(orgId, userId string, req *model.LeaveOrgReq) error {
	member, err := ms.Membership(orgId, userId)
	if err != nil {
		return err
	}

	if rbac.Role(member.Role) == rbac.RoleOwner {
		owners, err := ms.memberRepo.CountByRole(orgId, string(rbac.RoleOwner))
		if err != nil {
			return err
		}
		if owners <= 1 {
			return core.ErrSoleOwner
		}
	}

	if err := ms.resolveWorkRecords(orgId, userId, req.ReassignTo); err != nil {
		return err
	}

	if err := ms.memberRepo.Remove(orgId, userId); err != nil {
		return err
	}
	log.Infow("member left organization", "orgId", orgId, "userId", userId)
	return nil
}

// resolveWorkRecords 成员离开前处理名下工单与工时: 有数据且未指定去向则拒绝。
func (ms *MemberService) resolveWorkRecords(orgId, userId, reassignTo string) error {
	openTasks, timeEntries, err := ms.workRepo.CountByMember(orgId, userId)
	if err != nil {
		return err
	}
	if openTasks == 0 && timeEntries == 0 {
		return nil
	}
	if reassignTo == "" {
		return core.ErrMemberHasData.WithDetails(map[string]any{
			"openTasks":   openTasks,
			"timeEntries": timeEntries,
		})
	}

	// 接收人必须是组织成员
	recipient, err := ms.memberRepo.GetByUserAndOrg(orgId, reassignTo)
	if err != nil {
		return err
	}
	if recipient == nil {
		return core.ErrValidation.WithMessage("reassign target is not a member of this organization")
	}
	return ms.workRepo.ReassignWork(orgId, userId, reassignTo)
}
