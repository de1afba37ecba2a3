package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/config"
	"github.com/plotset/plotembed/internal/embed"
)

// flagOverrides holds the CLI flags that shadow config keys. A flag only
// wins when the user set it explicitly; otherwise the layered config value
// stands.
type flagOverrides struct {
	ExternalURL  *string
	Watermark    *bool
	ReferenceURL *string
	Concurrency  *int
	Addr         *string
}

// loadOptions merges the global file, the project file, the environment and
// then the explicitly set flags of cmd, in increasing precedence.
func loadOptions(cmd *cobra.Command, flags flagOverrides) (config.Options, error) {
	cfg, err := config.LoadLayered(".")
	if err != nil {
		return config.Options{}, exitError(ExitInvalidArgs, "plotembed: loading config (%v)", err)
	}
	applyFlagOverrides(cmd, cfg, flags)
	if err := config.Validate(cfg); err != nil {
		return config.Options{}, exitError(ExitInvalidArgs, "plotembed: %v", err)
	}
	opts := config.Resolve(cfg)
	slog.Debug("effective config",
		"external_url", opts.ExternalURL,
		"watermark", opts.Watermark,
		"concurrency", opts.Concurrency,
		"addr", opts.Addr)
	return opts, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags flagOverrides) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if flags.ExternalURL != nil && changed("external-url") {
		cfg.ExternalURL = *flags.ExternalURL
	}
	if flags.Watermark != nil && changed("watermark") {
		w := *flags.Watermark
		cfg.Watermark = &w
	}
	if flags.ReferenceURL != nil && changed("reference-url") {
		cfg.ReferenceURL = *flags.ReferenceURL
	}
	if flags.Concurrency != nil && changed("concurrency") {
		cfg.Concurrency = *flags.Concurrency
	}
	if flags.Addr != nil && changed("addr") {
		cfg.Server.Addr = *flags.Addr
	}
}

// newAssembler builds the embed assembler for opts.
func newAssembler(opts config.Options) (*embed.Assembler, error) {
	asm, err := embed.New(embed.Options{ExternalURL: opts.ExternalURL})
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "plotembed: %v", err)
	}
	return asm, nil
}
