// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

// Package embed assembles a self-contained embed document from an HTML
// template, CSV data and chart settings.
//
// The assembled document is the template with its relative script sources
// made absolute and one extra script element appended to the body. That
// script holds the data and settings as script-safe literals and hands them
// to the page's base_first_time entry point once the window loads.
package embed

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/plotset/plotembed/internal/csvdata"
	"github.com/plotset/plotembed/internal/embederr"
)

// Options configures an Assembler.
type Options struct {
	// ExternalURL is the base that relative script sources are resolved
	// against. Empty leaves script sources untouched.
	ExternalURL string
}

// Assembler builds embed documents. It holds no mutable state and is safe
// for concurrent use.
type Assembler struct {
	base *url.URL
}

// New returns an Assembler for opts. A non-empty ExternalURL must be an
// absolute URL.
func New(opts Options) (*Assembler, error) {
	a := &Assembler{}
	if opts.ExternalURL == "" {
		return a, nil
	}
	base, err := url.Parse(opts.ExternalURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, embederr.Parsef("external url %q is not an absolute URL", opts.ExternalURL)
	}
	a.base = base
	return a, nil
}

// ExternalURL returns the configured base URL, or "".
func (a *Assembler) ExternalURL() string {
	if a.base == nil {
		return ""
	}
	return a.base.String()
}

// Request carries the inputs of one Generate call.
//
// Config, Binding and Format accept either serialized JSON (string, []byte,
// json.RawMessage), which is parsed once, or any value encoding/json can
// marshal. A nil value is embedded as null.
type Request struct {
	Template string
	CSV      string
	Config   any
	Binding  any
	Format   any

	ShowWatermark bool
	// ReferenceURL, when set, is passed to the entry point so the embed can
	// link back to its source. It must be an absolute http(s) URL.
	ReferenceURL string
}

// Generate assembles the embed document for req. It either returns the full
// markup or an error; nothing partial is ever returned.
func (a *Assembler) Generate(ctx context.Context, req Request) (string, error) {
	config, err := normalizeJSON("config", req.Config)
	if err != nil {
		return "", err
	}
	binding, err := normalizeJSON("binding", req.Binding)
	if err != nil {
		return "", err
	}
	format, err := normalizeJSON("format", req.Format)
	if err != nil {
		return "", err
	}
	if err := checkReferenceURL(req.ReferenceURL); err != nil {
		return "", err
	}

	doc, err := parseDocument(req.Template)
	if err != nil {
		return "", err
	}
	rewritten, err := doc.rewriteScriptSources(a.base)
	if err != nil {
		return "", err
	}

	records, err := csvdata.Parse(ctx, req.CSV)
	if err != nil {
		return "", err
	}

	script, err := buildScript(payload{
		Records:       records.Records,
		Columns:       records.Columns,
		Config:        config,
		Binding:       binding,
		Format:        format,
		ShowWatermark: req.ShowWatermark,
		ReferenceURL:  req.ReferenceURL,
	})
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc.appendScript(script)
	out, err := doc.render()
	if err != nil {
		return "", err
	}

	slog.Debug("embed generated",
		"records", records.Len(),
		"columns", len(records.Columns),
		"rewritten_scripts", rewritten,
		"bytes", len(out))
	return out, nil
}

func checkReferenceURL(ref string) error {
	if ref == "" {
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return embederr.Parsef("reference url %q must be an absolute http(s) URL", ref)
	}
	return nil
}
