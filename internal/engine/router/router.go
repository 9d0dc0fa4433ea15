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

package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/consts"
	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/notify"
	"github.com/worklane/worklane/internal/engine/repo"
	"github.com/worklane/worklane/internal/engine/service"
	"github.com/worklane/worklane/pkg/cache"
	"github.com/worklane/worklane/pkg/ctx"
	"github.com/worklane/worklane/pkg/database"
	httpx "github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/http/middleware"
	"github.com/worklane/worklane/pkg/log"
	"github.com/worklane/worklane/pkg/version"
)

/**
 * @time: 2025/11/02
 * @file: router.go
 * @description: setup router
 */

type Router struct {
	Http *httpx.Http
	Ctx  *ctx.Context

	authService      *service.AuthService
	orgService       *service.OrganizationService
	memberService    *service.MemberService
	ownershipService *service.OwnershipService
	inviteService    *service.InvitationService
}

func NewRouter(httpConf *httpx.Http, appConf conf.App, appCtx *ctx.Context) *Router {
	db := database.NewGormDB(appCtx.GetMySQLIns())
	rdb := cache.NewRedisCache(appCtx.GetRedis())

	userRepo := repo.NewUserRepo(db, rdb)
	orgRepo := repo.NewOrganizationRepo(db)
	memberRepo := repo.NewMemberRepo(db)
	inviteRepo := repo.NewInvitationRepo(db)
	lockoutRepo := repo.NewLockoutRepo(db)
	workRepo := repo.NewWorkRepo(db)

	notifier := notify.NewNotifier(appConf.MailGatewayURL)

	return &Router{
		Http:             httpConf,
		Ctx:              appCtx,
		authService:      service.NewAuthService(userRepo, lockoutRepo, appConf),
		orgService:       service.NewOrganizationService(orgRepo, memberRepo, appConf),
		memberService:    service.NewMemberService(memberRepo, workRepo),
		ownershipService: service.NewOwnershipService(orgRepo, memberRepo),
		inviteService:    service.NewInvitationService(inviteRepo, memberRepo, orgRepo, userRepo, notifier, appConf),
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
	})

	app.Use(middleware.RequestMiddleware())
	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.AccessLogMiddleware(rt.Http))
	app.Use(middleware.UnifiedResponseMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	rt.routerGroup(api)

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, consts.UserSessionKey, rt.Ctx.GetRedis())

	rt.authRouter(r, auth)
	rt.orgRouter(r, auth)
	rt.memberRouter(r, auth)
	rt.inviteRouter(r, auth)
}

// renderErr 将业务错误映射为带稳定错误码的响应, 其余错误一律 500
func renderErr(c *fiber.Ctx, err error) error {
	if bizErr, ok := core.AsError(err); ok {
		return httpx.WithRepErrCode(c, bizErr.Status, bizErr.Code, bizErr.Message, bizErr.Details)
	}
	log.Errorw("request failed", "path", c.Path(), "err", err)
	return httpx.WithRepErr(c, httpx.InternalError, c.Path())
}
