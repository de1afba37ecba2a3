package config

import (
	"runtime"
	"time"
)

// Defaults applied by Resolve when no layer sets a value.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 32 << 20
	DefaultSettingsFormat = "json"
)

// Merge layers override on top of base. Non-zero override fields win;
// zero-value fields fall through to base. Neither argument is modified.
func Merge(base, override *Config) *Config {
	result := Config{}
	if base != nil {
		result = *base
	}
	if override == nil {
		return &result
	}

	if override.ExternalURL != "" {
		result.ExternalURL = override.ExternalURL
	}
	if override.Watermark != nil {
		w := *override.Watermark
		result.Watermark = &w
	}
	if override.ReferenceURL != "" {
		result.ReferenceURL = override.ReferenceURL
	}
	if override.SettingsFormat != "" {
		result.SettingsFormat = override.SettingsFormat
	}
	if override.Concurrency != 0 {
		result.Concurrency = override.Concurrency
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.RequestTimeout != "" {
		result.Server.RequestTimeout = override.Server.RequestTimeout
	}
	if override.Server.MaxBodyBytes != 0 {
		result.Server.MaxBodyBytes = override.Server.MaxBodyBytes
	}
	return &result
}

// Options is the effective, defaulted configuration used at runtime.
type Options struct {
	ExternalURL    string
	Watermark      bool
	ReferenceURL   string
	SettingsFormat string
	Concurrency    int
	Addr           string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Resolve fills defaults into cfg. Call Validate first; an unparsable
// request timeout falls back to the default.
func Resolve(cfg *Config) Options {
	if cfg == nil {
		cfg = &Config{}
	}
	opts := Options{
		ExternalURL:    cfg.ExternalURL,
		ReferenceURL:   cfg.ReferenceURL,
		SettingsFormat: cfg.SettingsFormat,
		Concurrency:    cfg.Concurrency,
		Addr:           cfg.Server.Addr,
		RequestTimeout: DefaultRequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}
	if cfg.Watermark != nil {
		opts.Watermark = *cfg.Watermark
	}
	if opts.SettingsFormat == "" {
		opts.SettingsFormat = DefaultSettingsFormat
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if d, err := time.ParseDuration(cfg.Server.RequestTimeout); err == nil && d > 0 {
		opts.RequestTimeout = d
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return opts
}

// LoadLayered reads the global file, the project file in dir and the
// environment, and merges them in that order.
func LoadLayered(dir string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	project, err := Load(dir)
	if err != nil {
		return nil, err
	}
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}
	return Merge(Merge(global, project), env), nil
}
