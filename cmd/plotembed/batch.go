package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/batch"
	"github.com/plotset/plotembed/internal/report"
)

// Batch-specific flag values.
var (
	batchConcurrency int
	batchExternalURL string
)

// batchCmd runs every job of a manifest.
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Generate many embeds from a TOML or YAML manifest",
	Long: `Generate one embed document per job listed in a manifest.

The manifest is TOML (.toml) or YAML (.yaml, .yml). Top-level keys set
defaults for every job; paths are relative to the manifest's directory.

  template = "chart.html"
  output_dir = "dist"

  [[jobs]]
  name = "sales"
  data = "sales.csv"
  settings = "sales-settings.json"

Jobs run concurrently. A failing job does not stop the others; the command
exits with status 3 if any job failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "j", 0, "jobs to run at once (default from config, else CPU count)")
	batchCmd.Flags().StringVar(&batchExternalURL, "external-url", "", "base URL for relative script sources")
}

func runBatch(cmd *cobra.Command, args []string) error {
	m, err := batch.Load(cmdFS, args[0])
	if err != nil {
		return exitError(ExitInvalidArgs, "plotembed: %v", err)
	}

	opts, err := loadOptions(cmd, flagOverrides{
		ExternalURL: &batchExternalURL,
		Concurrency: &batchConcurrency,
	})
	if err != nil {
		return err
	}
	// The manifest outranks config files but not the flag.
	if m.ExternalURL != "" && !cmd.Flags().Changed("external-url") {
		opts.ExternalURL = m.ExternalURL
	}
	asm, err := newAssembler(opts)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Assembler:    asm,
		FS:           cmdFS,
		Concurrency:  opts.Concurrency,
		Watermark:    opts.Watermark,
		ReferenceURL: opts.ReferenceURL,
	}
	results, err := runner.Run(cmd.Context(), m)
	if err != nil {
		return exitError(ExitFailure, "plotembed: batch interrupted: %v", err)
	}

	tbl := report.NewTable(
		report.Column{Header: "JOB"},
		report.Column{Header: "STATUS", Color: report.ColorStatus},
		report.Column{Header: "OUTPUT"},
		report.Column{Header: "BYTES", Align: report.AlignRight},
		report.Column{Header: "TIME", Align: report.AlignRight},
	)
	for _, r := range results {
		status, out := "ok", r.Output
		if r.Err != nil {
			status, out = "failed", r.Err.Error()
		}
		tbl.AddRow(r.Job.Name, status, out, strconv.Itoa(r.Bytes), r.Duration.Round(time.Millisecond).String())
	}
	if err := tbl.Render(cmd.OutOrStdout()); err != nil {
		return err
	}

	if n := batch.Failed(results); n > 0 {
		return exitError(ExitFailure, "plotembed: %d of %d jobs failed", n, len(results))
	}
	return nil
}
