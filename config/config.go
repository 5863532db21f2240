package config

import (
	"bytes"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	Log       LogConfig       `mapstructure:"log"`
	Sequence  SequenceConfig  `mapstructure:"sequence"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	APIPrefix   string   `mapstructure:"api_prefix"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig 数据库配置，driver 取值 mysql 或 mongo
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	MongoURI string `mapstructure:"mongo_uri"`
	LogLevel string `mapstructure:"log_level"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	NotifyTo string `mapstructure:"notify_to"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SequenceConfig 服务单号生成配置
type SequenceConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryDelayMS int           `mapstructure:"retry_delay_ms"`
	RetryDelay   time.Duration `mapstructure:"-"`
}

// RateLimitConfig 登录/注册限流配置
type RateLimitConfig struct {
	LoginAttempts      int           `mapstructure:"login_attempts"`
	LoginWindowSeconds int           `mapstructure:"login_window_seconds"`
	LoginWindow        time.Duration `mapstructure:"-"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, errors.Annotate(err, "read embedded config")
	}
	logrus.Debug("embedded default config loaded")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			logrus.WithError(err).Warnf("cannot read config file %s", configPath)
		} else {
			logrus.Infof("merged config file %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/nnact")
		externalViper.AddConfigPath("$HOME/.nnact")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				logrus.WithError(err).Warn("merge external config failed")
			} else {
				logrus.Infof("merged config file %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// NNACT_DATABASE_DRIVER=mongo 之类的环境变量覆盖
	v.SetEnvPrefix("NNACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Annotate(err, "decode config")
	}
	cfg.applyDefaults()

	GlobalConfig = &cfg
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.Sequence.MaxAttempts <= 0 {
		cfg.Sequence.MaxAttempts = 3
	}
	if cfg.Sequence.RetryDelayMS < 0 {
		cfg.Sequence.RetryDelayMS = 0
	}
	cfg.Sequence.RetryDelay = time.Duration(cfg.Sequence.RetryDelayMS) * time.Millisecond

	if cfg.RateLimit.LoginAttempts <= 0 {
		cfg.RateLimit.LoginAttempts = 10
	}
	if cfg.RateLimit.LoginWindowSeconds <= 0 {
		cfg.RateLimit.LoginWindowSeconds = 60
	}
	cfg.RateLimit.LoginWindow = time.Duration(cfg.RateLimit.LoginWindowSeconds) * time.Second

	if cfg.Server.APIPrefix == "" {
		cfg.Server.APIPrefix = "/api"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	fields := logrus.Fields{
		"port":   GlobalConfig.Server.Port,
		"mode":   GlobalConfig.Server.Mode,
		"prefix": GlobalConfig.Server.APIPrefix,
		"driver": GlobalConfig.Database.Driver,
		"email":  GlobalConfig.Email.Enabled,
	}
	if GlobalConfig.Database.Driver == "mongo" {
		fields["database"] = GlobalConfig.Database.DBName
	} else {
		fields["database"] = GlobalConfig.Database.Username + "@" + GlobalConfig.Database.Host + ":" +
			GlobalConfig.Database.Port + "/" + GlobalConfig.Database.DBName
	}
	logrus.WithFields(fields).Info("current config")
}
