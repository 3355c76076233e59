package config

import (
	"fmt"

	"github.com/de-tools/bm-billing/pkg/services/usage"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const DefaultS3Endpoint = "https://s3.us-east-005.backblazeb2.com"

type S3Config struct {
	EndpointURL string `mapstructure:"endpoint_url" validate:"omitempty,url"`
	KeyID       string `mapstructure:"key_id"`
	AppKey      string `mapstructure:"app_key"`
	Bucket      string `mapstructure:"bucket"`
	Region      string `mapstructure:"region"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port" validate:"omitempty,numeric"`
}

type Config struct {
	S3                S3Config      `mapstructure:"s3"`
	Catalog           usage.Catalog `mapstructure:"catalog"`
	ExcludedIntervals []string      `mapstructure:"excluded_intervals"`
	Server            ServerConfig  `mapstructure:"server"`
}

var envBindings = map[string]string{
	"s3.endpoint_url": "S3_LEASE_ENDPOINT_URL",
	"s3.key_id":       "S3_LEASE_KEY_ID",
	"s3.app_key":      "S3_LEASE_APP_KEY",
	"s3.bucket":       "S3_LEASE_BUCKET",
	"s3.region":       "S3_LEASE_REGION",
	"server.host":     "SERVER_HOST",
	"server.port":     "SERVER_PORT",
}

// LoadConfig reads the optional YAML config file at path and overlays the
// S3_LEASE_* and SERVER_* environment variables. Without a catalog section
// the built-in resource class table is used.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("s3.endpoint_url", DefaultS3Endpoint)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse billing config: %w", err)
	}

	if len(cfg.Catalog.SUTypes) == 0 && len(cfg.Catalog.ResourceClasses) == 0 {
		cfg.Catalog = usage.DefaultCatalog()
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid billing config: %w", err)
	}
	return &cfg, nil
}
