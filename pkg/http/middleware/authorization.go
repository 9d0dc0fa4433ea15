package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/http/jwt"
	"github.com/worklane/worklane/pkg/log"
)

// ClaimsKey fiber.Ctx locals key of the parsed token claims.
const ClaimsKey = "claims"

// AuthorizationMiddleware 认证中间件
// secretKey: 用于验证 JWT 的密钥
// tokenPrefix: Redis 中会话键前缀
// This function is used as the middleware of fiber.
func AuthorizationMiddleware(secretKey, tokenPrefix string, client *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErr(c, http.TokenBeEmpty, c.Path())
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErr(c, http.TokenBeEmpty, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			// 检查是否是令牌过期错误
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErr(c, http.TokenExpired, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return http.WithRepErr(c, http.InvalidToken, c.Path())
		}

		// 检查 Redis 中是否存在会话
		sessionKey := tokenPrefix + claims.UserId
		exists, err := client.Exists(context.Background(), sessionKey).Result()
		if err != nil {
			log.Errorf("redis check session exists failed: %v", err)
			return http.WithRepErr(c, http.InternalError, c.Path())
		}
		if exists == 0 {
			return http.WithRepErr(c, http.TokenExpired, c.Path())
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// GetClaims returns the parsed claims set by AuthorizationMiddleware, or nil.
func GetClaims(c *fiber.Ctx) *jwt.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*jwt.AuthClaims)
	return claims
}
