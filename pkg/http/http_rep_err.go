package http

import (
	"github.com/gofiber/fiber/v2"
)

// ResponseErr 错误响应，code 为稳定的机器可读错误码
type ResponseErr struct {
	Code    string `json:"code"`
	ErrMsg  string `json:"errMsg"`
	Details any    `json:"details,omitempty"`
	Path    string `json:"path,omitempty"`
}

// WithRepErr 返回传输层错误
func WithRepErr(c *fiber.Ctx, code *Code, path string) error {
	return c.Status(code.Status).JSON(ResponseErr{
		Code:   code.Code,
		ErrMsg: code.Msg,
		Path:   path,
	})
}

// WithRepErrCode 返回业务错误，携带稳定错误码和可选详情
func WithRepErrCode(c *fiber.Ctx, status int, code, errMsg string, details any) error {
	return c.Status(status).JSON(ResponseErr{
		Code:    code,
		ErrMsg:  errMsg,
		Details: details,
		Path:    c.Path(),
	})
}
