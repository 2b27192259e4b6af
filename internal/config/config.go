// Package config loads CLI settings from .typeprovider.yaml and TYPEPROVIDER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	tp "github.com/reoring/typeprovider"
	"github.com/reoring/typeprovider/format"
	"github.com/reoring/typeprovider/i18n"
)

// EnvPrefix prefixes every environment override (TYPEPROVIDER_STRICT, ...).
const EnvPrefix = "TYPEPROVIDER"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config is the resolved CLI configuration.
type Config struct {
	Strict   bool          `mapstructure:"strict"`
	Language string        `mapstructure:"language"`
	Output   string        `mapstructure:"output"`
	Formats  FormatsConfig `mapstructure:"formats"`
}

// FormatsConfig selects the string formats available to schemas.
type FormatsConfig struct {
	// Defaults registers the built-in formats (email, uuid, date-time, ...).
	Defaults bool `mapstructure:"defaults"`
	// Patterns registers additional formats as RE2 expressions that must
	// match the whole value.
	Patterns map[string]string `mapstructure:"patterns"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("strict", true)
	v.SetDefault("language", "en")
	v.SetDefault("output", OutputText)
	v.SetDefault("formats.defaults", true)
}

// Load reads file, or .typeprovider.yaml from the working directory when
// file is empty, applies environment overrides and validates the result.
// A missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".typeprovider")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings and format patterns.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("config: output must be %q or %q, got %q", OutputText, OutputJSON, c.Output)
	}
	for name, expr := range c.Formats.Patterns {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("config: format %q: %w", name, err)
		}
	}
	return nil
}

// Registry builds the format registry the configuration describes.
func (c *Config) Registry() *format.Registry {
	r := format.NewRegistry()
	if c.Formats.Defaults {
		format.RegisterDefaults(r)
	}
	for name, expr := range c.Formats.Patterns {
		re := regexp.MustCompile(`^(?:` + expr + `)$`)
		r.Set(name, re.MatchString)
	}
	return r
}

// Apply selects the message language and returns provider options.
func (c *Config) Apply(logger *slog.Logger) tp.Options {
	i18n.SetLanguage(c.Language)
	return tp.Options{
		Formats: c.Registry(),
		Strict:  c.Strict,
		Logger:  logger,
	}
}
