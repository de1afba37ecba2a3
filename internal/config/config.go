// Package config handles .plotembed.yaml configuration files and the
// PLOTEMBED_* environment overrides layered on top of them.
package config

// Config represents the contents of a .plotembed.yaml file. Every field is
// optional; zero values fall through to the next layer.
type Config struct {
	ExternalURL    string       `yaml:"external_url,omitempty" env:"PLOTEMBED_EXTERNAL_URL"`
	Watermark      *bool        `yaml:"watermark,omitempty" env:"PLOTEMBED_WATERMARK"`
	ReferenceURL   string       `yaml:"reference_url,omitempty" env:"PLOTEMBED_REFERENCE_URL"`
	SettingsFormat string       `yaml:"settings_format,omitempty" env:"PLOTEMBED_SETTINGS_FORMAT"`
	Concurrency    int          `yaml:"concurrency,omitempty" env:"PLOTEMBED_CONCURRENCY"`
	Server         ServerConfig `yaml:"server,omitempty"`
}

// ServerConfig holds settings for `plotembed serve`.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr,omitempty" env:"PLOTEMBED_ADDR"`
	// RequestTimeout is a Go duration string applied per request.
	RequestTimeout string `yaml:"request_timeout,omitempty" env:"PLOTEMBED_REQUEST_TIMEOUT"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes,omitempty" env:"PLOTEMBED_MAX_BODY_BYTES"`
}

// FileName is the expected config file name in a project directory.
const FileName = ".plotembed.yaml"
