package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/log"
)

// ExceptionMiddleware 异常中间件
// 捕获 panic 错误，返回 500 状态码和错误信息
// This function is used as the middleware of fiber.
func ExceptionMiddleware(c *fiber.Ctx) error {
	defer func() {
		if err := recover(); err != nil {
			// 一律返回服务器错误，避免返回堆栈错误给客户端
			log.Errorf("panic: %v\n%s", err, debug.Stack())
			_ = http.WithRepErr(c, http.InternalError, c.Path())
		}
	}()

	return c.Next()
}
