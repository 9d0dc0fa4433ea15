package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/http/middleware"
	"github.com/worklane/worklane/pkg/log"
)

/**
 * @time: 2025/11/02
 * @file: router_member.go
 * @description: 组织成员路由
 */

func (rt *Router) memberRouter(r fiber.Router, auth fiber.Handler) {
	memberGroup := r.Group("/organizations/:orgId/members")
	{
		// 成员列表
		memberGroup.Get("/", auth, rt.listMembers)

		// 修改成员角色
		memberGroup.Patch("/:userId", auth, rt.updateMemberRole)

		// 移除成员
		memberGroup.Delete("/:userId", auth, rt.removeMember)
	}
}

// requireOwner 校验调用者是组织 OWNER
func (rt *Router) requireOwner(orgId, userId string) error {
	member, err := rt.memberService.Membership(orgId, userId)
	if err != nil {
		return err
	}
	if rbac.Role(member.Role) != rbac.RoleOwner {
		return core.ErrInsufficientPermissions
	}
	return nil
}

// requireAtLeast 校验调用者角色不低于给定角色
func (rt *Router) requireAtLeast(orgId, userId string, min rbac.Role) error {
	member, err := rt.memberService.Membership(orgId, userId)
	if err != nil {
		return err
	}
	if !rbac.Role(member.Role).AtLeast(min) {
		return core.ErrInsufficientPermissions
	}
	return nil
}

// listMembers 分页成员列表, 支持角色过滤
func (rt *Router) listMembers(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	req := &model.ListMembersReq{
		Role:     c.Query("role", ""),
		PageNum:  c.QueryInt("pageNum", 1),
		PageSize: c.QueryInt("pageSize", 20),
	}

	page, err := rt.memberService.List(orgId, claims.UserId, req)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, page)
	return nil
}

// updateMemberRole 修改成员角色; 目标角色为 OWNER 时转入所有权转移
func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	userId := c.Params("userId")
	if orgId == "" || userId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if err := rt.requireAtLeast(orgId, claims.UserId, rbac.RoleAdmin); err != nil {
		return renderErr(c, err)
	}

	var req model.UpdateMemberRoleReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("update member role failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	// 提升为 OWNER 即所有权转移
	if rbac.Role(req.Role) == rbac.RoleOwner {
		if err := rt.ownershipService.Transfer(orgId, claims.UserId, userId); err != nil {
			return renderErr(c, err)
		}
		c.Locals(middleware.OPERATION, userId)
		return nil
	}

	if err := rt.memberService.UpdateRole(orgId, claims.UserId, userId, &req); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, userId)
	return nil
}

// removeMember 移除成员
func (rt *Router) removeMember(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	userId := c.Params("userId")
	if orgId == "" || userId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if err := rt.requireAtLeast(orgId, claims.UserId, rbac.RoleAdmin); err != nil {
		return renderErr(c, err)
	}

	var req model.RemoveMemberReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
		}
	}

	if err := rt.memberService.Remove(orgId, claims.UserId, userId, &req); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, userId)
	return nil
}
