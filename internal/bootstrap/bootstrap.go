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

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/router"
	"github.com/worklane/worklane/pkg/cache"
	"github.com/worklane/worklane/pkg/ctx"
	"github.com/worklane/worklane/pkg/database"
	"github.com/worklane/worklane/pkg/log"
	"github.com/worklane/worklane/pkg/metrics"
)

/**
 * @time: 2025/11/02
 * @file: bootstrap.go
 * @description: 应用装配与生命周期
 */

type App struct {
	HttpApp *fiber.App
	Logger  *zap.Logger
	Metrics *metrics.Server
	AppConf conf.AppConfig
	Ctx     *ctx.Context
}

// Bootstrap 装配应用: 配置 -> 日志 -> Redis -> MySQL -> 路由
func Bootstrap(confDir string) (*App, error) {
	appConf := conf.NewConf(confDir)

	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	dbClient, err := database.NewDatabase(appConf.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	appCtx := ctx.NewContext(context.Background(), dbClient, redisClient, logger.Sugar())

	rt := router.NewRouter(&appConf.Http, appConf.App, appCtx)

	app := &App{
		HttpApp: rt.Router(),
		Logger:  logger,
		AppConf: appConf,
		Ctx:     appCtx,
	}
	if appConf.Metrics.Enable {
		app.Metrics = metrics.NewServer(appConf.Metrics)
	}
	return app, nil
}

// Run 启动 HTTP 与 metrics 监听, 阻塞直到收到退出信号
func (app *App) Run() error {
	if app.Metrics != nil {
		if err := app.Metrics.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", app.AppConf.Http.Host, app.AppConf.Http.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", addr)
		errCh <- app.HttpApp.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
	}

	shutdownTimeout := time.Duration(app.AppConf.Http.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
	if app.Metrics != nil {
		if err := app.Metrics.Stop(shutdownCtx); err != nil {
			log.Errorf("metrics server shutdown: %v", err)
		}
	}
	_ = app.Logger.Sync()
	return nil
}
