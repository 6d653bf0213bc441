// Package config resolves runtime settings from flags and TABSENDER_*
// environment variables. There is no configuration file.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tab-sender/internal/models"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "TABSENDER"

const (
	BackendRobot  = "robotgo"
	BackendDryRun = "dry-run"
)

// Config holds all runtime settings.
type Config struct {
	Countdown    int           `mapstructure:"countdown"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	KeyDelay     time.Duration `mapstructure:"key_delay"`
	Backend      string        `mapstructure:"backend"`
	ReadAttempts uint          `mapstructure:"read_attempts"`
	ReadDelay    time.Duration `mapstructure:"read_delay"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
	Watch        bool          `mapstructure:"watch"`
}

// DefaultConfig gives ten one-second ticks and a short pause after every
// injected action.
func DefaultConfig() Config {
	return Config{
		Countdown:    10,
		TickInterval: time.Second,
		KeyDelay:     100 * time.Millisecond,
		Backend:      BackendRobot,
		ReadAttempts: 3,
		ReadDelay:    200 * time.Millisecond,
		LogLevel:     "info",
		LogFormat:    "console",
		Watch:        false,
	}
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("countdown", d.Countdown)
	v.SetDefault("tick_interval", d.TickInterval)
	v.SetDefault("key_delay", d.KeyDelay)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("read_attempts", d.ReadAttempts)
	v.SetDefault("read_delay", d.ReadDelay)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("watch", d.Watch)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in flags to the config key of the same name,
// with dashes turned into underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	return bindErr
}

// Load reads the current state of v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, models.NewValidationError("config", nil, err.Error())
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Countdown < 0:
		return models.NewValidationError("countdown", c.Countdown, "must not be negative")
	case c.TickInterval <= 0:
		return models.NewValidationError("tick_interval", c.TickInterval, "must be positive")
	case c.KeyDelay < 0:
		return models.NewValidationError("key_delay", c.KeyDelay, "must not be negative")
	case c.ReadAttempts < 1:
		return models.NewValidationError("read_attempts", c.ReadAttempts, "must be at least 1")
	case c.ReadDelay < 0:
		return models.NewValidationError("read_delay", c.ReadDelay, "must not be negative")
	case c.Backend != BackendRobot && c.Backend != BackendDryRun:
		return models.NewValidationError("backend", c.Backend, "expected robotgo or dry-run")
	}
	return nil
}
