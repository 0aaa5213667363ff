package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/de-tools/emotion-atlas/pkg/validation"
)

const envPrefix = "EMOTION_ATLAS"

type Config struct {
	LogLevel  string          `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path" validate:"required"`
	Threads int    `mapstructure:"threads" validate:"min=0"`
}

type AnalysisConfig struct {
	Vocabulary string   `mapstructure:"vocabulary" validate:"oneof=first_sample union"`
	Categories []string `mapstructure:"categories"`
}

type RateLimitConfig struct {
	Disabled bool          `mapstructure:"disabled"`
	Requests int           `mapstructure:"requests" validate:"min=1"`
	Window   time.Duration `mapstructure:"window" validate:"min=1ms"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ArchiveConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Bucket        string        `mapstructure:"bucket" validate:"required_if=Enabled true"`
	Prefix        string        `mapstructure:"prefix"`
	Region        string        `mapstructure:"region"`
	QueueSize     int           `mapstructure:"queue_size" validate:"min=1"`
	RetryAttempts int           `mapstructure:"retry_attempts" validate:"min=1"`
	RetryInterval time.Duration `mapstructure:"retry_interval" validate:"min=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "emotion-atlas.db")
	v.SetDefault("database.threads", 4)
	v.SetDefault("analysis.vocabulary", "first_sample")
	v.SetDefault("analysis.categories", []string{})
	v.SetDefault("rate_limit.disabled", false)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.prefix", "reports")
	v.SetDefault("archive.region", "")
	v.SetDefault("archive.queue_size", 256)
	v.SetDefault("archive.retry_attempts", 3)
	v.SetDefault("archive.retry_interval", 2*time.Second)
}

// LoadConfig reads defaults, the optional config file at path and
// EMOTION_ATLAS_* environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
