package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/http/middleware"
	"github.com/worklane/worklane/pkg/log"
)

/**
 * @time: 2025/11/02
 * @file: router_invitation.go
 * @description: 组织邀请路由
 */

func (rt *Router) inviteRouter(r fiber.Router, auth fiber.Handler) {
	inviteGroup := r.Group("/organizations/:orgId/invites")
	{
		// 发出邀请
		inviteGroup.Post("/", auth, rt.createInvite)

		// 邀请列表
		inviteGroup.Get("/", auth, rt.listInvites)

		// 重发邀请
		inviteGroup.Post("/:inviteId/resend", auth, rt.resendInvite)

		// 撤销邀请
		inviteGroup.Delete("/:inviteId", auth, rt.revokeInvite)
	}

	publicGroup := r.Group("/invites")
	{
		// 令牌预览, 无需登录
		publicGroup.Get("/:token/details", rt.previewInvite)

		// 接受邀请, 需登录
		publicGroup.Post("/accept", auth, rt.acceptInvite)
	}
}

// createInvite 发出邀请
func (rt *Router) createInvite(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	var req model.CreateInviteReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("create invite failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	resp, err := rt.inviteService.Create(orgId, claims.UserId, &req)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

// listInvites 邀请列表, 支持状态过滤
func (rt *Router) listInvites(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	if orgId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	page, err := rt.inviteService.List(orgId, claims.UserId,
		c.Query("status", ""),
		c.QueryInt("pageNum", 1),
		c.QueryInt("pageSize", 20))
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, page)
	return nil
}

// resendInvite 重发邀请邮件, 令牌与有效期不变
func (rt *Router) resendInvite(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	inviteId := c.Params("inviteId")
	if orgId == "" || inviteId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if err := rt.inviteService.Resend(orgId, claims.UserId, inviteId); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, inviteId)
	return nil
}

// revokeInvite 撤销邀请
func (rt *Router) revokeInvite(c *fiber.Ctx) error {
	orgId := c.Params("orgId")
	inviteId := c.Params("inviteId")
	if orgId == "" || inviteId == "" {
		return http.WithRepErr(c, http.OrgIdIsEmpty, c.Path())
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if err := rt.inviteService.Revoke(orgId, claims.UserId, inviteId); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, inviteId)
	return nil
}

// previewInvite 令牌公开预览
func (rt *Router) previewInvite(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	preview, err := rt.inviteService.Preview(token)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, preview)
	return nil
}

// acceptInvite 接受邀请
func (rt *Router) acceptInvite(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	var req model.AcceptInviteReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("accept invite failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	member, err := rt.inviteService.Accept(claims.UserId, &req)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, member)
	return nil
}
