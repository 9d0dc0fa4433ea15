package consts

/**
 * @time: 2025/11/02
 * @file: consts.go
 * @description: 常量定义
 */

// Redis key prefixes
const (
	// UserSessionKey 登录会话键前缀, 值为 access token
	UserSessionKey = "worklane:session:"

	// UserInfoKey 用户信息缓存键前缀
	UserInfoKey = "worklane:user:"
)
