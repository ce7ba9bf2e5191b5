package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultAPIVersion     = "2025-01"
	DefaultMaxBodyBytes   = int64(5 << 20) // 5 MiB
	DefaultRequestTimeout = 30 * time.Second
)

type Config struct {
	ServiceName    string        `koanf:"service_name" mapstructure:"service_name"`
	HostName       string        `koanf:"host_name" mapstructure:"host_name"`
	APISecretKey   string        `koanf:"api_secret_key" mapstructure:"api_secret_key"`
	APIVersion     string        `koanf:"api_version" mapstructure:"api_version"`
	MaxBodyBytes   int64         `koanf:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestTimeout time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "webhooks",
		APIVersion:     DefaultAPIVersion,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		RequestTimeout: DefaultRequestTimeout,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.HostName) == "" {
		return fmt.Errorf("core: host_name is required")
	}
	if strings.Contains(c.HostName, "/") {
		return fmt.Errorf("core: host_name must not contain a scheme or path")
	}
	if strings.TrimSpace(c.APISecretKey) == "" {
		return fmt.Errorf("core: api_secret_key is required")
	}
	if strings.TrimSpace(c.APIVersion) == "" {
		return fmt.Errorf("core: api_version is required")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("core: max_body_bytes must not be negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("core: request_timeout must not be negative")
	}
	return nil
}

// CallbackAddress joins the configured host with a webhook path.
func (c Config) CallbackAddress(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "https://" + strings.TrimSpace(c.HostName) + path
}
