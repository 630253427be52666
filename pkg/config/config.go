package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		Port    int    `mapstructure:"port"`
		TLSCert string `mapstructure:"tls_cert"`
		TLSKey  string `mapstructure:"tls_key"`
		// Versions lists the protocol versions this gateway serves.
		Versions []string `mapstructure:"versions"`
	} `mapstructure:"api"`

	Backends struct {
		PackageURL string        `mapstructure:"package_url"`
		ImageURL   string        `mapstructure:"image_url"`
		MachineURL string        `mapstructure:"machine_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"backends"`

	Cache struct {
		// Store selects the cache backend: "redis" or "memory".
		Store         string `mapstructure:"store"`
		RedisAddr     string `mapstructure:"redis_addr"`
		RedisPassword string `mapstructure:"redis_password"`
		// TTLSeconds bounds the lifetime of cached candidate lists.
		TTLSeconds int `mapstructure:"ttl_seconds"`
	} `mapstructure:"cache"`

	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`

	Features struct {
		BleedingEdge          bool     `mapstructure:"bleeding_edge"`
		BleedingEdgeWhitelist []string `mapstructure:"bleeding_edge_whitelist"`
	} `mapstructure:"features"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	// Parsed once at load time so request handling never re-parses
	// version strings.
	supportedVersions []*semver.Version
}

// SupportedVersions returns the parsed protocol versions, computed once at
// startup.
func (c *Config) SupportedVersions() []*semver.Version {
	return c.supportedVersions
}

// CacheTTL returns the configured cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func Load() (*Config, error) {
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.versions", []string{"6.5.0", "7.0.0", "7.1.0", "8.0.0"})
	viper.SetDefault("backends.package_url", "http://localhost:8081")
	viper.SetDefault("backends.image_url", "http://localhost:8082")
	viper.SetDefault("backends.machine_url", "http://localhost:8083")
	viper.SetDefault("backends.timeout", "30s")
	viper.SetDefault("cache.store", "memory")
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.ttl_seconds", 60)
	viper.SetDefault("auth.jwt_secret", "development-secret-change-in-production")
	viper.SetDefault("features.bleeding_edge", false)
	viper.SetDefault("features.bleeding_edge_whitelist", []string{})
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	viper.SetEnvPrefix("CLOUDGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/cloudgate/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate fails fast on malformed configuration so the gateway never
// accepts traffic with a silently-defaulted feature or version setup.
func (c *Config) Validate() error {
	if len(c.API.Versions) == 0 {
		return fmt.Errorf("api.versions must list at least one protocol version")
	}
	c.supportedVersions = nil
	for _, raw := range c.API.Versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			return fmt.Errorf("api.versions entry %q is not a valid semantic version: %w", raw, err)
		}
		c.supportedVersions = append(c.supportedVersions, v)
	}

	for _, entry := range c.Features.BleedingEdgeWhitelist {
		if entry == "" || strings.ContainsAny(entry, " \t") {
			return fmt.Errorf("features.bleeding_edge_whitelist entry %q is not a valid account login", entry)
		}
	}

	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive, got %d", c.Cache.TTLSeconds)
	}
	switch c.Cache.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("cache.store must be \"redis\" or \"memory\", got %q", c.Cache.Store)
	}

	for name, raw := range map[string]string{
		"backends.package_url": c.Backends.PackageURL,
		"backends.image_url":   c.Backends.ImageURL,
		"backends.machine_url": c.Backends.MachineURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s %q is not a valid URL", name, raw)
		}
	}
	return nil
}
