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
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/notify"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/internal/engine/repo"
	"github.com/worklane/worklane/pkg/id"
	"github.com/worklane/worklane/pkg/log"
	"github.com/worklane/worklane/pkg/metrics"
)

/**
 * @time: 2025/11/02
 * @file: service_invitation.go
 * @description: 邀请生命周期: 创建/重发/撤销/接受/预览
 */

type InvitationService struct {
	inviteRepo repo.IInvitationRepository
	memberRepo repo.IMemberRepository
	orgRepo    repo.IOrganizationRepository
	userRepo   repo.IUserRepository
	notifier   notify.Notifier
	app        conf.App
	now        func() time.Time
}

func NewInvitationService(
	inviteRepo repo.IInvitationRepository,
	memberRepo repo.IMemberRepository,
	orgRepo repo.IOrganizationRepository,
	userRepo repo.IUserRepository,
	notifier notify.Notifier,
	app conf.App,
) *InvitationService {
	return &InvitationService{
		inviteRepo: inviteRepo,
		memberRepo: memberRepo,
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		app:        app,
		now:        time.Now,
	}
}

// newInviteToken 32 字节随机数 hex 编码, 令牌只经邮件出站, 接口响应不回显
func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Create 发出邀请。发起人至少 ADMIN, 且受邀角色不得超过发起人自身;
// 同组织同邮箱的 PENDING 邀请唯一。
func (is *InvitationService) Create(orgId, actorUserId string, req *model.CreateInviteReq) (*model.InviteResp, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, core.ErrValidation.WithMessage("email is required")
	}
	role := rbac.Role(req.Role)
	if !rbac.Invitable(role) {
		return nil, core.ErrValidation.WithMessage("role must be one of ADMIN, STAFF, CLIENT")
	}

	actor, err := is.memberRepo.GetByUserAndOrg(orgId, actorUserId)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, core.ErrNotMember
	}
	actorRole := rbac.Role(actor.Role)
	if !actorRole.AtLeast(rbac.RoleAdmin) {
		return nil, core.ErrInsufficientPermissions
	}
	if !rbac.CanAssignRole(actorRole, role) {
		return nil, core.ErrInsufficientPermissions
	}

	org, err := is.orgRepo.GetByOrgId(orgId)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, core.ErrOrgNotFound
	}

	// 已是成员的邮箱不允许邀请
	if user, err := is.userRepo.GetByEmail(email); err != nil {
		return nil, err
	} else if user != nil {
		existing, err := is.memberRepo.GetByUserAndOrg(orgId, user.UserId)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, core.ErrAlreadyMember
		}
	}

	if active, err := is.inviteRepo.GetActiveByOrgEmail(orgId, email); err != nil {
		return nil, err
	} else if active != nil {
		// 发出后未过期的邀请仍然有效, 过期的就地翻转后放行重邀
		if !active.Expired(is.now()) {
			return nil, core.ErrInviteExists
		}
		if _, err := is.inviteRepo.MarkExpired(active.InviteId); err != nil {
			return nil, err
		}
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}

	invite := &model.OrganizationInvitation{
		InviteId:  id.GetULID(),
		OrgId:     orgId,
		Email:     email,
		Role:      string(role),
		Token:     token,
		Status:    model.InviteStatusPending,
		InvitedBy: actorUserId,
		ExpiresAt: is.now().Add(is.app.InviteTTL),
	}
	if err := is.inviteRepo.Create(invite); err != nil {
		return nil, err
	}

	// 邮件尽力而为, 不回滚已提交的邀请
	is.notifier.SendInvite(email, org.Name, string(role), token)

	return inviteResp(invite), nil
}

// Resend 重发同一令牌, 不重置有效期; 已过期的邀请就地翻转并拒绝
func (is *InvitationService) Resend(orgId, actorUserId, inviteId string) error {
	if err := is.requireAdmin(orgId, actorUserId); err != nil {
		return err
	}

	invite, err := is.getOrgInvite(orgId, inviteId)
	if err != nil {
		return err
	}
	if invite.Status != model.InviteStatusPending {
		return core.ErrInviteNotPending
	}
	if invite.Expired(is.now()) {
		if _, err := is.inviteRepo.MarkExpired(inviteId); err != nil {
			return err
		}
		return core.ErrInviteExpired
	}

	org, err := is.orgRepo.GetByOrgId(orgId)
	if err != nil {
		return err
	}
	if org != nil {
		is.notifier.SendInvite(invite.Email, org.Name, invite.Role, invite.Token)
	}
	return nil
}

// Revoke 撤销 PENDING 邀请, 幂等失败返回当前状态错误
func (is *InvitationService) Revoke(orgId, actorUserId, inviteId string) error {
	if err := is.requireAdmin(orgId, actorUserId); err != nil {
		return err
	}

	invite, err := is.getOrgInvite(orgId, inviteId)
	if err != nil {
		return err
	}
	if invite.Status != model.InviteStatusPending {
		return core.ErrInviteNotPending
	}

	ok, err := is.inviteRepo.MarkRevoked(inviteId)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrInviteNotPending
	}
	log.Infow("invitation revoked", "orgId", orgId, "inviteId", inviteId, "by", actorUserId)
	return nil
}

// Preview 令牌公开预览, 无需登录。过期的 PENDING 邀请就地翻转为 EXPIRED。
func (is *InvitationService) Preview(token string) (*model.InvitePreviewResp, error) {
	invite, err := is.lookupAndExpire(token)
	if err != nil {
		return nil, err
	}

	org, err := is.orgRepo.GetByOrgId(invite.OrgId)
	if err != nil {
		return nil, err
	}
	resp := &model.InvitePreviewResp{
		Email:     invite.Email,
		Role:      invite.Role,
		Status:    invite.Status,
		ExpiresAt: invite.ExpiresAt.UnixMilli(),
	}
	if org != nil {
		resp.OrgName = org.Name
		resp.OrgSlug = org.Slug
	}
	return resp, nil
}

// Accept 登录用户接受邀请。邮箱必须与受邀邮箱一致(归一化比较);
// 状态翻转与成员插入同事务, 并发双接受只有一方翻转成功, 败方走幂等分支。
// 已是成员的重复接受同样幂等: 标记 ACCEPTED 并返回现有成员行, 不做角色合并。
func (is *InvitationService) Accept(userId string, req *model.AcceptInviteReq) (*model.OrganizationMember, error) {
	if req.Token == "" {
		return nil, core.ErrValidation.WithMessage("token is required")
	}

	invite, err := is.lookupAndExpire(req.Token)
	if err != nil {
		return nil, err
	}

	user, err := is.userRepo.GetByUserId(userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.ErrUserNotFound
	}
	// 邀请不可转让
	if NormalizeEmail(user.Email) != invite.Email {
		return nil, core.ErrEmailMismatch
	}

	existing, err := is.memberRepo.GetByUserAndOrg(invite.OrgId, userId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// 幂等分支只对 PENDING/ACCEPTED 放行, REVOKED/EXPIRED 仍按终态拒绝
		switch invite.Status {
		case model.InviteStatusPending:
			if _, err := is.inviteRepo.MarkAccepted(invite.InviteId, userId); err != nil {
				return nil, err
			}
			return existing, nil
		case model.InviteStatusAccepted:
			return existing, nil
		}
	}

	switch invite.Status {
	case model.InviteStatusPending:
	case model.InviteStatusExpired:
		return nil, core.ErrInviteExpired
	default:
		return nil, core.ErrInviteNotPending
	}

	member := &model.OrganizationMember{
		MemberId: id.GetUUIDWithoutDashes(),
		OrgId:    invite.OrgId,
		UserId:   userId,
		Role:     invite.Role,
	}
	accepted, err := is.inviteRepo.AcceptTx(invite.InviteId, userId, member)
	if err != nil {
		return nil, err
	}
	if !accepted {
		// 并发败方: 若成员行已由胜方写入则幂等返回
		existing, err := is.memberRepo.GetByUserAndOrg(invite.OrgId, userId)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		return nil, core.ErrInviteNotPending
	}

	metrics.InvitesAccepted.Inc()
	log.Infow("invitation accepted", "orgId", invite.OrgId, "userId", userId, "role", invite.Role)
	return member, nil
}

func (is *InvitationService) List(orgId, actorUserId, status string, pageNum, pageSize int) (*model.PageResp, error) {
	if err := is.requireAdmin(orgId, actorUserId); err != nil {
		return nil, err
	}
	if status != "" {
		switch status {
		case model.InviteStatusPending, model.InviteStatusAccepted, model.InviteStatusRevoked, model.InviteStatusExpired:
		default:
			return nil, core.ErrValidation.WithMessage("unknown status filter")
		}
	}

	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	invites, total, err := is.inviteRepo.ListByOrg(orgId, status, (pageNum-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	now := is.now()
	list := make([]model.InviteResp, 0, len(invites))
	for i := range invites {
		inv := &invites[i]
		// 列表展示惰性过期, 不回写
		if inv.Status == model.InviteStatusPending && inv.Expired(now) {
			inv.Status = model.InviteStatusExpired
		}
		list = append(list, *inviteResp(inv))
	}
	return &model.PageResp{List: list, Total: total}, nil
}

// lookupAndExpire 按令牌取邀请, PENDING 且已过期的就地翻转为 EXPIRED
func (is *InvitationService) lookupAndExpire(token string) (*model.OrganizationInvitation, error) {
	invite, err := is.inviteRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, core.ErrInviteNotFound
	}

	if invite.Status == model.InviteStatusPending && invite.Expired(is.now()) {
		if _, err := is.inviteRepo.MarkExpired(invite.InviteId); err != nil {
			log.Errorw("failed to mark invitation expired", "inviteId", invite.InviteId, "err", err)
		}
		invite.Status = model.InviteStatusExpired
	}
	return invite, nil
}

func (is *InvitationService) requireAdmin(orgId, userId string) error {
	member, err := is.memberRepo.GetByUserAndOrg(orgId, userId)
	if err != nil {
		return err
	}
	if member == nil {
		return core.ErrNotMember
	}
	if !rbac.Role(member.Role).AtLeast(rbac.RoleAdmin) {
		return core.ErrInsufficientPermissions
	}
	return nil
}

func (is *InvitationService) getOrgInvite(orgId, inviteId string) (*model.OrganizationInvitation, error) {
	invite, err := is.inviteRepo.GetByInviteId(inviteId)
	if err != nil {
		return nil, err
	}
	if invite == nil || invite.OrgId != orgId {
		return nil, core.ErrInviteNotFound
	}
	return invite, nil
}

func inviteResp(inv *model.OrganizationInvitation) *model.InviteResp {
	return &model.InviteResp{
		InviteId:  inv.InviteId,
		OrgId:     inv.OrgId,
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    inv.Status,
		InvitedBy: inv.InvitedBy,
		ExpiresAt: inv.ExpiresAt.UnixMilli(),
		CreatedAt: inv.CreatedAt.UnixMilli(),
	}
}
