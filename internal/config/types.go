package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// ServerConfig 描述 HTTP 服务监听与跨域设置。
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// QueueConfig 管理执行队列的守卫参数。
// 字段在进程内只读，由队列组件在构造时注入，不允许运行期修改。
type QueueConfig struct {
	ExecAPIKey            string             `mapstructure:"exec_api_key"`
	KillSwitch            bool               `mapstructure:"kill_switch"`
	MaxLotDefault         float64            `mapstructure:"max_lot_default"`
	AccountCaps           map[string]float64 `mapstructure:"account_caps"`
	AllowedIPs            []string           `mapstructure:"allowed_ips"`
	EnforcePriceDeviation bool               `mapstructure:"enforce_price_deviation"`
	MaxDeviationPct       float64            `mapstructure:"max_deviation_pct"`
	// ReservationTimeout 为 0 表示预留永不过期。
	ReservationTimeout time.Duration `mapstructure:"reservation_timeout"`
}

// CapFor 返回指定账户的手数上限，未单独配置时回落到默认上限。
func (q QueueConfig) CapFor(accountID string) float64 {
	if cap, ok := q.AccountCaps[accountID]; ok {
		return cap
	}
	return q.MaxLotDefault
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Server.Addr == "" {
		err = multierr.Append(err, errors.New("server.addr 不能为空"))
	}
	if c.Queue.ExecAPIKey == "" {
		err = multierr.Append(err, errors.New("queue.exec_api_key 不能为空"))
	}
	if c.Queue.MaxLotDefault <= 0 {
		err = multierr.Append(err, errors.New("queue.max_lot_default 必须大于0"))
	}
	for account, lotCap := range c.Queue.AccountCaps {
		if lotCap <= 0 {
			err = multierr.Append(err, fmt.Errorf("queue.account_caps[%s] 必须大于0", account))
		}
	}
	if c.Queue.EnforcePriceDeviation && c.Queue.MaxDeviationPct <= 0 {
		err = multierr.Append(err, errors.New("queue.max_deviation_pct 启用价格偏离校验时必须大于0"))
	}
	if c.Queue.ReservationTimeout < 0 {
		err = multierr.Append(err, errors.New("queue.reservation_timeout 不能为负"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
