// Package config loads server settings from an optional YAML file, a .env
// file and SUPERLISTS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFileName = "superlists"
	configFileType = "yaml"
	envPrefix      = "SUPERLISTS"
)

// Storage and mail drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	MailerLog      = "log"
	MailerSendGrid = "sendgrid"
)

var (
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	ErrMissingPostgresURL   = errors.New("storage.postgres_url is required for the postgres driver")
	ErrUnknownMailDriver    = errors.New("unknown mail driver")
	ErrMissingSendGridKey   = errors.New("mail.sendgrid_api_key is required for the sendgrid driver")
	ErrMissingJWTSecret     = errors.New("auth.jwt_secret is required")
	ErrInvalidTTL           = errors.New("ttl must be positive")
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Mail    MailConfig    `mapstructure:"mail"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	BaseURL string `mapstructure:"base_url"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type MailConfig struct {
	Driver         string `mapstructure:"driver"`
	From           string `mapstructure:"from"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecureCookies reports whether session cookies should be marked Secure.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.Server.BaseURL, "https://")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "./data/superlists.db")
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("mail.driver", MailerLog)
	v.SetDefault("mail.from", "noreply@superlists")
	v.SetDefault("mail.sendgrid_api_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration. configFile may be empty, in which case
// superlists.yaml is looked up in the working directory and /etc/superlists;
// a missing file is not an error. A .env file in the working directory is
// loaded into the environment first without overriding variables that are
// already set.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/superlists")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return ErrMissingPostgresURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	switch c.Mail.Driver {
	case MailerLog:
	case MailerSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return ErrMissingSendGridKey
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMailDriver, c.Mail.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl: %w", ErrInvalidTTL)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl: %w", ErrInvalidTTL)
	}
	return nil
}
