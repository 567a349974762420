// Package config loads ghlookup settings from defaults, an optional YAML
// file, and GHLOOKUP_* environment variables, in increasing priority.
//
// LAYERING WITH VIPER:
//
//	Default()                 port: 8080
//	  ← ghlookup.yaml          port: 9090
//	    ← GHLOOKUP_PORT=7070   port: 7070   (wins)
//
// Nested keys map to env names by replacing "." with "_":
// session.ttl → GHLOOKUP_SESSION_TTL. Durations use Go syntax ("45m").
//
// Every key is registered with SetDefault, even the empty ones. Viper's
// AutomaticEnv only consults the environment for keys it already knows,
// so a key with no default could never be set from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sakif/ghlookup/internal/apperror"
	"github.com/sakif/ghlookup/internal/github"
)

// EnvPrefix is prepended to every environment override, e.g. GHLOOKUP_PORT
// or GHLOOKUP_SESSION_TTL.
const EnvPrefix = "GHLOOKUP"

// Config is the full set of runtime settings.
type Config struct {
	Port       int           `mapstructure:"port" yaml:"port"`
	APIBaseURL string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level"`
	Session    SessionConfig `mapstructure:"session" yaml:"session"`
	HTTP       HTTPConfig    `mapstructure:"http" yaml:"http"`
}

// SessionConfig controls the in-memory session store and its cookie.
type SessionConfig struct {
	Secret        string        `mapstructure:"secret" yaml:"secret"`
	Cookie        string        `mapstructure:"cookie" yaml:"cookie"`
	Secure        bool          `mapstructure:"secure" yaml:"secure"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

// HTTPConfig holds the inbound server timeouts.
type HTTPConfig struct {
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:       8080,
		APIBaseURL: github.DefaultBaseURL,
		LogLevel:   "info",
		Session: SessionConfig{
			Cookie:        "ghlookup_session",
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
		},
		HTTP: HTTPConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

// Load builds a Config. path may be empty; a path that does not exist is
// not an error, so the same invocation works with or without a file.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", def.Port)
	v.SetDefault("api_base_url", def.APIBaseURL)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("session.secret", def.Session.Secret)
	v.SetDefault("session.cookie", def.Session.Cookie)
	v.SetDefault("session.secure", def.Session.Secure)
	v.SetDefault("session.ttl", def.Session.TTL)
	v.SetDefault("session.sweep_interval", def.Session.SweepInterval)
	v.SetDefault("http.read_timeout", def.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", def.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", def.HTTP.IdleTimeout)
	v.SetDefault("http.shutdown_timeout", def.HTTP.ShutdownTimeout)

	// A missing file is fine: the same command line works on a machine
	// without one. A file that exists but does not parse is an error.
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and formats. The session secret may be empty; the
// server generates one at startup in that case.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return apperror.ValidationFailed("port", fmt.Sprintf("port %d out of range", c.Port))
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperror.ValidationFailed("api_base_url", fmt.Sprintf("api_base_url %q must be an absolute http(s) URL", c.APIBaseURL))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Session.Cookie == "" {
		return apperror.ValidationFailed("session.cookie", "session.cookie must not be empty")
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < 16 {
		return apperror.ValidationFailed("session.secret", "session.secret must be at least 16 characters")
	}
	if c.Session.TTL <= 0 {
		return apperror.ValidationFailed("session.ttl", "session.ttl must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return apperror.ValidationFailed("session.sweep_interval", "session.sweep_interval must be positive")
	}
	return nil
}

// ParseLevel maps a log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, apperror.ValidationFailed("log_level", fmt.Sprintf("unknown log_level %q", s))
	}
	return level, nil
}

// Encode writes c as YAML with the secret redacted.
func (c Config) Encode(w io.Writer) error {
	if c.Session.Secret != "" {
		c.Session.Secret = "<redacted>"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encoding yaml: %w", err)
	}
	return enc.Close()
}
