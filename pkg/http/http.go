package http

import (
	"time"
)

/**
 * @time: 2025/11/02
 * @file: http.go
 * @description: http server config
 */

type Http struct {
	Host            string
	Port            int
	ContextPath     string
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	TLS             TLS
	Auth            Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration // 访问令牌有效期（分钟）
	RefreshExpire  time.Duration // 刷新令牌有效期（分钟）
	RedisKeyPrefix string
}
