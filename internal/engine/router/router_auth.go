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
 * @file: router_auth.go
 * @description: 认证路由
 */

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		// not auth
		authGroup.Post("/register", rt.register)
		authGroup.Post("/login", rt.login)

		// auth
		authGroup.Post("/logout", auth, rt.logout)
		authGroup.Get("/refresh", auth, rt.refresh)
		authGroup.Get("/me", auth, rt.me)
	}
}

// register 注册
func (rt *Router) register(c *fiber.Ctx) error {
	var req model.RegisterReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("register failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	info, err := rt.authService.Register(&req)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, info)
	return nil
}

// login 登录, 失败计数达到阈值后账号锁定
func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("login failed: %v", err)
		return http.WithRepErr(c, http.RequestParameterParsingFailed, c.Path())
	}

	resp, err := rt.authService.Login(&req, rt.Http.Auth)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, resp)
	return nil
}

// logout 登出
func (rt *Router) logout(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	if err := rt.authService.Logout(claims.UserId); err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.OPERATION, claims.UserId)
	return nil
}

// refresh 刷新令牌
func (rt *Router) refresh(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	rToken := c.Get("X-Refresh-Token")
	if rToken == "" {
		return http.WithRepErr(c, http.TokenBeEmpty, c.Path())
	}

	tokens, err := rt.authService.Refresh(&rt.Http.Auth, claims.UserId, claims.Email, rToken)
	if err != nil {
		log.Errorf("refresh token failed: %v", err)
		return http.WithRepErr(c, http.InvalidToken, c.Path())
	}

	c.Locals(middleware.DETAIL, tokens)
	return nil
}

// me 当前用户信息
func (rt *Router) me(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return http.WithRepErr(c, http.Unauthorized, c.Path())
	}

	info, err := rt.authService.UserInfo(claims.UserId)
	if err != nil {
		return renderErr(c, err)
	}

	c.Locals(middleware.DETAIL, info)
	return nil
}
