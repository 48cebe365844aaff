// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Sonar  SonarConfig  `mapstructure:"sonar" yaml:"sonar"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SonarConfig holds the connection settings for the analysis server.
// The token is never written back out when the config is serialized.
type SonarConfig struct {
	URL             string        `mapstructure:"url" yaml:"url"`
	Token           string        `mapstructure:"token" yaml:"-"`
	Project         string        `mapstructure:"project" yaml:"project"`
	PageSize        int           `mapstructure:"page_size" yaml:"page_size"`
	RateLimit       float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	IgnoreTLSErrors bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
}

// ReportConfig holds the output artifact settings.
type ReportConfig struct {
	Output string `mapstructure:"output" yaml:"output"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults initializes default values for all configuration keys.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "hotspot-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Sonar --
	v.SetDefault("sonar.url", "http://localhost:9000")
	v.SetDefault("sonar.page_size", 500)
	v.SetDefault("sonar.rate_limit", 0.0)
	v.SetDefault("sonar.timeout", "30s")
	v.SetDefault("sonar.ignore_tls_errors", false)

	// -- Report --
	v.SetDefault("report.output", "security_hotspots_report.xlsx")
	v.SetDefault("report.format", "xlsx")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with the defaults above.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind the environment variable for the one sensitive value.
	v.BindEnv("sonar.token", "HOTSPOT_SONAR_TOKEN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Sonar.PageSize <= 0 {
		return fmt.Errorf("sonar.page_size must be a positive integer")
	}
	if c.Sonar.RateLimit < 0 {
		return fmt.Errorf("sonar.rate_limit must not be negative")
	}
	if c.Sonar.Timeout < 0 {
		return fmt.Errorf("sonar.timeout must not be negative")
	}
	switch c.Report.Format {
	case "xlsx", "json":
	default:
		return fmt.Errorf("report.format must be 'xlsx' or 'json', got %q", c.Report.Format)
	}
	return nil
}
