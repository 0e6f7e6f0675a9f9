package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite / postgres
	Path    string `mapstructure:"path"`   // sqlite file
	DSN     string `mapstructure:"dsn"`    // postgres connection string
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

type AppSubConfig struct {
	PageSize     int `mapstructure:"page_size"`
	TrendPeriods int `mapstructure:"trend_periods"`
}

type SchedulerConfig struct {
	SessionCleanup string `mapstructure:"session_cleanup"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Log       LogConfig       `mapstructure:"log"`
	App       AppSubConfig    `mapstructure:"app"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// TokenTTL is the lifetime of an access token and its backing session.
func (c *Config) TokenTTL() time.Duration {
	if c.JWT.ExpireHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWT.ExpireHours) * time.Hour
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/budget.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "budget-planner")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("security.bcrypt_cost", 12)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("app.page_size", 100)
	v.SetDefault("app.trend_periods", 3)

	v.SetDefault("scheduler.session_cleanup", "@every 1h")
}

// Load reads configuration from the given YAML file (e.g. "config.yaml").
// A missing file is not an error: defaults and environment variables still
// apply, e.g. BUDGET_SERVER_PORT=9000 or BUDGET_JWT_SECRET=...
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BUDGET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			problems = append(problems, "database.dsn is required for postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q must be sqlite or postgres", c.Database.Driver))
	}

	switch {
	case len(c.JWT.Secret) < 16:
		problems = append(problems, "jwt.secret must be at least 16 characters")
	case strings.HasPrefix(strings.ToLower(c.JWT.Secret), "change-me"):
		problems = append(problems, "jwt.secret is still the sample placeholder")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("security.bcrypt_cost %d out of range 4-31", c.Security.BcryptCost))
	}
	if c.App.PageSize <= 0 {
		problems = append(problems, "app.page_size must be positive")
	}
	if c.App.TrendPeriods <= 0 {
		problems = append(problems, "app.trend_periods must be positive")
	}
	if c.Scheduler.SessionCleanup != "" {
		if _, err := cron.ParseStandard(c.Scheduler.SessionCleanup); err != nil {
			problems = append(problems, fmt.Sprintf("scheduler.session_cleanup: %v", err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
