// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

// Package report renders human-readable summaries: aligned tables for CSV
// inspection, lint results and batch runs.
package report

import (
	"strconv"

	"github.com/fatih/color"
)

// Shared color printers.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// ColorStatus colors job and check outcomes.
func ColorStatus(val string) string {
	switch val {
	case "failed", "error":
		return colorRed.Sprint(val)
	case "warning", "skipped":
		return colorYellow.Sprint(val)
	case "ok", "valid":
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

// ColorCount colors a count: 0 is green, >0 is yellow.
func ColorCount(val string) string {
	n, err := strconv.Atoi(val)
	if err != nil {
		return val
	}
	if n == 0 {
		return colorGreen.Sprint(val)
	}
	return colorYellow.Sprint(val)
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}
