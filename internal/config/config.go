package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Default values for the audit configuration
const (
	DefaultMaxKeyAgeDays   = 90
	DefaultInactiveKeyDays = 30
	DefaultOutputDir       = "reports"
	DefaultS3Prefix        = "iam-audit"
	DefaultLogLevel        = "info"

	envPrefix = "IAMAUDIT"
)

// Thresholds control when an access key is reported
type Thresholds struct {
	MaxKeyAgeDays   int `mapstructure:"max_key_age_days"`
	InactiveKeyDays int `mapstructure:"inactive_key_days"`
}

// Config is the full run configuration
type Config struct {
	Thresholds `mapstructure:",squash"`

	OutputDir string `mapstructure:"output_dir"`
	Region    string `mapstructure:"region"` // empty defers to the AWS SDK chain
	Profile   string `mapstructure:"profile"`
	S3Bucket  string `mapstructure:"s3_bucket"`
	S3Prefix  string `mapstructure:"s3_prefix"`
	LogLevel  string `mapstructure:"log_level"`
}

// ConfigError reports an invalid configuration value
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Thresholds: Thresholds{
			MaxKeyAgeDays:   DefaultMaxKeyAgeDays,
			InactiveKeyDays: DefaultInactiveKeyDays,
		},
		OutputDir: DefaultOutputDir,
		S3Prefix:  DefaultS3Prefix,
		LogLevel:  DefaultLogLevel,
	}
}

// Load resolves the configuration from flags, IAMAUDIT_* environment
// variables, an optional config file and defaults, in that order of precedence.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, &ConfigError{Reason: "failed to bind flags", Err: err}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &ConfigError{Field: "config", Reason: fmt.Sprintf("failed to read %s", path), Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ConfigError{Reason: "failed to parse configuration", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("max_key_age_days", d.MaxKeyAgeDays)
	v.SetDefault("inactive_key_days", d.InactiveKeyDays)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("region", d.Region)
	v.SetDefault("profile", d.Profile)
	v.SetDefault("s3_bucket", d.S3Bucket)
	v.SetDefault("s3_prefix", d.S3Prefix)
	v.SetDefault("log_level", d.LogLevel)
}

// bindFlags maps --max-key-age-days style flags onto max_key_age_days keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isConfigKey(key) {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

func isConfigKey(key string) bool {
	switch key {
	case "max_key_age_days", "inactive_key_days", "output_dir", "region",
		"profile", "s3_bucket", "s3_prefix", "log_level":
		return true
	}
	return false
}

// Validate checks thresholds, paths and names before any AWS call is made.
// Regions are not checked against a list, new ones are accepted as given.
func (c Config) Validate() error {
	if c.MaxKeyAgeDays <= 0 {
		return &ConfigError{Field: "max_key_age_days", Reason: fmt.Sprintf("must be positive, got %d", c.MaxKeyAgeDays)}
	}
	if c.InactiveKeyDays <= 0 {
		return &ConfigError{Field: "inactive_key_days", Reason: fmt.Sprintf("must be positive, got %d", c.InactiveKeyDays)}
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return &ConfigError{Field: "output_dir", Reason: "must not be empty"}
	}
	if strings.ContainsAny(c.Region, " /") {
		return &ConfigError{Field: "region", Reason: fmt.Sprintf("malformed AWS region %q", c.Region)}
	}
	if c.S3Bucket != "" && strings.Contains(c.S3Bucket, "/") {
		return &ConfigError{Field: "s3_bucket", Reason: "must be a bucket name, not a path"}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return &ConfigError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel), Err: err}
	}
	return nil
}

// Level returns the parsed zerolog level
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
