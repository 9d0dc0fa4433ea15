package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/http/middleware"
	"github.com/worklane/worklane/pkg/log"
)

/**
 * @time: 2025/11/02
 * @file: router_organization.go
 * @description: 组织路由
 */

func (rt *Router) orgRouter(r fiber.Router, auth fiber.Handler) {
	orgGroup := r.Group("/organizations")
	{
		// 创建组织
		orgGroup.Post("/", auth, rt.createOrg)

		// 我的组织列表
		orgGroup.Get("/", auth, rt.listMyOrgs)

		// 组织详情
		orgGroup.Get("/:orgId", auth, rt.getOrg)

		// 组织统计
		orgGroup.Get("/:orgId/stats", auth, rt.orgStats)

		// 更新组织
		orgGroup.Patch("/:orgId", auth, rt.updateOrg)

		// 删除组织
		orgGroup.Delete("/:orgId", auth, rt.deleteOrg)

		// 所有权转移
		orgGroup.Post("/:orgId/transfer-ownership", auth, rt.transferOwnership)

		// 退出组织
		orgGroup.Post("/:orgId/leave", auth, rt.leaveOrg)
	}
}

// createOrg 创建组织, 创建者成为 OWNER
func (rt *Router) createOrg(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	var req model.CreateOrgReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("create org failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	org, err := rt.orgService.Create(claims.UserId, &req)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, org)
	return nil
}

// listMyOrgs 当前用户所属组织
func (rt *Router) listMyOrgs(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	orgs, err := rt.orgService.ListByUser(claims.UserId)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, orgs)
	return nil
}

// getOrg 组织详情, 仅成员可见
func (rt *Router) getOrg(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if _, err := rt.memberService.Membership(orgId, claims.UserId); err != nil {
		return renderErr(c, err)
	}

	org, err := rt.orgService.Detail(orgId)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, org)
	return nil
}

// orgStats 组织统计
func (rt *Router) orgStats(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if _, err := rt.memberService.Membership(orgId, claims.UserId); err != nil {
		return renderErr(c, err)
	}

	stats, err := rt.orgService.Stats(orgId)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, stats)
	return nil
}

// updateOrg 更新组织, ADMIN 及以上
func (rt *Router) updateOrg(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if err := rt.requireAtLeast(orgId, claims.UserId, rbac.RoleAdmin); err != nil {
		return renderErr(c, err)
	}

	var req model.UpdateOrgReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("update org failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	org, err := rt.orgService.Update(orgId, &req)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, org)
	return nil
}

// deleteOrg 删除组织, 仅 OWNER
func (rt *Router) deleteOrg(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if err := rt.requireOwner(orgId, claims.UserId); err != nil {
		return renderErr(c, err)
	}

	force := c.QueryBool("force", false)
	if err := rt.orgService.Delete(orgId, force); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, orgId)
	return nil
}

// transferOwnership 所有权转移, 仅现任 OWNER
func (rt *Router) transferOwnership(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	var req model.TransferOwnershipReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("transfer ownership failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	if err := rt.ownershipService.Transfer(orgId, claims.UserId, req.ToUserId); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, orgId)
	return nil
}

// leaveOrg 退出组织
func (rt *Router) leaveOrg(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	var req model.LeaveOrgReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
		}
	}

	if err := rt.memberService.Leave(orgId, claims.UserId, &req); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, orgId)
	return nil
}
