// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

// Package redact strips sensitive values from strings before they appear in
// output, logs, or error messages.
package redact

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output.
var sensitiveEnvVars = []string{
	"PLOTEMBED_API_TOKEN",
	"PLOTEMBED_TOKEN",
}

// urlUserinfo matches the user[:password]@ part of a URL.
var urlUserinfo = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)[^/\s@]+@`)

var (
	cachedSecrets []string
	cacheOnce     sync.Once
)

func loadSecrets() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if len(val) >= 4 {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
}

// ResetForTest clears the cached secrets so tests can change env vars with
// t.Setenv between calls.
func ResetForTest() {
	cachedSecrets = nil
	cacheOnce = sync.Once{}
}

// String replaces known secret values and URL credentials in s with
// "[REDACTED]". Secret values are read from the environment once.
func String(s string) string {
	cacheOnce.Do(loadSecrets)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return urlUserinfo.ReplaceAllString(s, "${1}[REDACTED]@")
}
