package conf

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/worklane/worklane/pkg/cache"
	"github.com/worklane/worklane/pkg/database"
	"github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/log"
	"github.com/worklane/worklane/pkg/metrics"
)

/**
 * @time: 2025/11/02
 * @file: conf.go
 * @description: application config
 */

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Metrics  metrics.Config
	App      App
}

// App 应用级配置。原实现中的内部组织/系统管理员等全局可变状态
// 统一收敛到这里，启动时注入，运行期不可变。
type App struct {
	// SystemAdminEmail 初始管理员邮箱（cli create-admin 使用）
	SystemAdminEmail string

	// SingleTenant 单租户模式：仅允许创建一个组织
	SingleTenant bool

	// InviteTTL 邀请有效期，默认 7 天
	InviteTTL time.Duration

	// LockoutThreshold 连续失败次数阈值，默认 5
	LockoutThreshold int

	// LockoutDuration 锁定时长，默认 15 分钟
	LockoutDuration time.Duration

	// MailGatewayURL 邮件网关地址，为空时仅记录日志
	MailGatewayURL string
}

// SetDefaults 填充缺省值
func (a *App) SetDefaults() {
	if a.InviteTTL <= 0 {
		a.InviteTTL = 7 * 24 * time.Hour
	}
	if a.LockoutThreshold <= 0 {
		a.LockoutThreshold = 5
	}
	if a.LockoutDuration <= 0 {
		a.LockoutDuration = 15 * time.Minute
	}
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load conf file
func LoadConfigFile(confDir string) (AppConfig, error) {

	config := viper.New()
	config.AddConfigPath(confDir)
	config.SetConfigName("config")
	config.SetConfigType("toml")
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("The configuration changes, re-analyze the configuration file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	cfg.App.SetDefaults()

	return cfg, nil
}
