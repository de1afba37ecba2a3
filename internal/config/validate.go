package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SettingsFormats lists the values accepted for settings_format.
var SettingsFormats = []string{"json", "annotated", "yaml"}

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.ExternalURL != "" {
		u, err := url.Parse(cfg.ExternalURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("external_url: must be an absolute URL, got %q", cfg.ExternalURL))
		}
	}

	if cfg.ReferenceURL != "" {
		u, err := url.Parse(cfg.ReferenceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("reference_url: must be an absolute http(s) URL, got %q", cfg.ReferenceURL))
		}
	}

	if cfg.SettingsFormat != "" && !contains(SettingsFormats, cfg.SettingsFormat) {
		errs = append(errs, fmt.Sprintf("settings_format: invalid value %q (must be %s)",
			cfg.SettingsFormat, strings.Join(SettingsFormats, ", ")))
	}

	if cfg.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency: must be non-negative, got %d", cfg.Concurrency))
	}

	if cfg.Server.RequestTimeout != "" {
		d, err := time.ParseDuration(cfg.Server.RequestTimeout)
		if err != nil {
			errs = append(errs, fmt.Sprintf("server.request_timeout: %v", err))
		} else if d <= 0 {
			errs = append(errs, fmt.Sprintf("server.request_timeout: must be positive, got %s", d))
		}
	}

	if cfg.Server.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Sprintf("server.max_body_bytes: must be non-negative, got %d", cfg.Server.MaxBodyBytes))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
