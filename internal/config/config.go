package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mode             string        `mapstructure:"mode"`
	Port             int           `mapstructure:"port"`
	StaticPath       string        `mapstructure:"static_path"`
	ReadLimit        int64         `mapstructure:"read_limit"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	Secret           string        `mapstructure:"secret"`
	LogLevel         string        `mapstructure:"log_level"`
	ArchivePath      string        `mapstructure:"archive_path"`
	ArchiveBuffer    int           `mapstructure:"archive_buffer"`
	ChatRateLimit    int           `mapstructure:"chat_rate_limit"`
	ChatRateInterval time.Duration `mapstructure:"chat_rate_interval"`
	SendBuffer       int           `mapstructure:"send_buffer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("archive_path", "data/archive.db")
	v.SetDefault("archive_buffer", 256)
	v.SetDefault("chat_rate_limit", 5)
	v.SetDefault("chat_rate_interval", "3s")
	v.SetDefault("send_buffer", 64)
}

// Load reads config/config.<env>.yaml (or --config), then POKER_* env vars,
// then flags. A missing file falls back to defaults.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("poker", pflag.ContinueOnError)
	env := fs.String("env", "", "config environment (dev, prod, ...)")
	file := fs.String("config", "", "explicit config file path")
	fs.Int("port", 0, "listen port")
	fs.String("log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("POKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if f := fs.Lookup("port"); f.Changed {
		_ = v.BindPFlag("port", f)
	}
	if f := fs.Lookup("log-level"); f.Changed {
		_ = v.BindPFlag("log_level", f)
	}

	fileName := *file
	if fileName == "" {
		e := *env
		if e == "" {
			e = v.GetString("env")
		}
		if e == "" {
			e = "dev"
		}
		fileName = fmt.Sprintf("config/config.%s.yaml", e)
	}
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.PingPeriod <= 0 {
		errs = append(errs, errors.New("ping_period must be positive"))
	}
	if c.ReadLimit <= 0 {
		errs = append(errs, errors.New("read_limit must be positive"))
	}
	if c.Secret == "" {
		errs = append(errs, errors.New("secret must not be empty"))
	}
	return errors.Join(errs...)
}
