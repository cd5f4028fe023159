package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort  string        `yaml:"server_port"`
	AppEnv      string        `yaml:"app_env"`
	AuthDevMode bool          `yaml:"auth_dev_mode"`
	LogLevel    string        `yaml:"log_level"`
	DB          DBConfig      `yaml:"db"`
	Cognito     CognitoConfig `yaml:"cognito"`
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
	}
	return nil
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type CognitoConfig struct {
	Region          string `yaml:"region"`
	UserPoolID      string `yaml:"user_pool_id"`
	AppClientID     string `yaml:"app_client_id"`
	AppClientSecret string `yaml:"app_client_secret"`
}

// Load builds the config in three layers: built-in defaults, then the YAML
// file named by CONFIG_FILE (if set), then environment variables.
func Load() (Config, error) {
	cfg := Config{
		ServerPort: "8080",
		AppEnv:     "local",
		LogLevel:   "info",
		DB: DBConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "momentum",
			Password: "momentum",
			Name:     "momentum",
			SSLMode:  "disable",
		},
		Cognito: CognitoConfig{
			Region: "ap-northeast-1",
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfEnv(&cfg.ServerPort, "SERVER_PORT")
	setIfEnv(&cfg.AppEnv, "APP_ENV")
	setIfEnv(&cfg.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("AUTH_DEV_MODE"); v != "" {
		cfg.AuthDevMode = strings.EqualFold(v, "true")
	}
	setIfEnv(&cfg.DB.Host, "DB_HOST")
	setIfEnv(&cfg.DB.Port, "DB_PORT")
	setIfEnv(&cfg.DB.User, "DB_USER")
	setIfEnv(&cfg.DB.Password, "DB_PASSWORD")
	setIfEnv(&cfg.DB.Name, "DB_NAME")
	setIfEnv(&cfg.DB.SSLMode, "DB_SSLMODE")
	setIfEnv(&cfg.Cognito.Region, "COGNITO_REGION")
	setIfEnv(&cfg.Cognito.UserPoolID, "COGNITO_USER_POOL_ID")
	setIfEnv(&cfg.Cognito.AppClientID, "COGNITO_APP_CLIENT_ID")
	setIfEnv(&cfg.Cognito.AppClientSecret, "COGNITO_APP_CLIENT_SECRET")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
