package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/embed"
	"github.com/plotset/plotembed/internal/settings"
)

// Generate-specific flag values.
var (
	genTemplate     string
	genData         string
	genSettings     string
	genConfig       string
	genBinding      string
	genFormat       string
	genWatermark    bool
	genReferenceURL string
	genExternalURL  string
	genOutput       string
)

// generateCmd builds one embed document.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build an embed document from a template, CSV data and settings",
	Long: `Build a self-contained embed document.

The template's relative <script src> paths are rewritten against the external
URL, and one script element holding the CSV records, the chart config, the
column binding and the column format is appended to <body>.

Chart config comes either from a config JSON file (--config) or from a
settings tree (--settings), which is flattened to its field defaults first.
Pass "-" to --data to read the CSV from stdin.

Examples:
  plotembed generate -t chart.html -d sales.csv --settings settings.json -o embed.html
  cat sales.csv | plotembed generate -t chart.html -d - --config config.json`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genTemplate, "template", "t", "", "HTML template file")
	f.StringVarP(&genData, "data", "d", "", "CSV data file (- for stdin)")
	f.StringVar(&genSettings, "settings", "", "settings tree JSON file, flattened to the chart config")
	f.StringVar(&genConfig, "config", "", "chart config JSON file")
	f.StringVar(&genBinding, "binding", "", "column binding JSON file")
	f.StringVar(&genFormat, "format", "", "column format JSON file")
	f.BoolVar(&genWatermark, "watermark", false, "show the floating watermark")
	f.StringVar(&genReferenceURL, "reference-url", "", "absolute http(s) URL the embed links back to")
	f.StringVar(&genExternalURL, "external-url", "", "base URL for relative script sources")
	f.StringVarP(&genOutput, "output", "o", "", "output file (default: stdout)")

	_ = generateCmd.MarkFlagRequired("template")
	_ = generateCmd.MarkFlagRequired("data")
	generateCmd.MarkFlagsMutuallyExclusive("settings", "config")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	opts, err := loadOptions(cmd, flagOverrides{
		ExternalURL:  &genExternalURL,
		Watermark:    &genWatermark,
		ReferenceURL: &genReferenceURL,
	})
	if err != nil {
		return err
	}
	asm, err := newAssembler(opts)
	if err != nil {
		return err
	}

	tmpl, err := readInput(cmd, genTemplate)
	if err != nil {
		return err
	}
	data, err := readInput(cmd, genData)
	if err != nil {
		return err
	}

	req := embed.Request{
		Template:      string(tmpl),
		CSV:           string(data),
		ShowWatermark: opts.Watermark,
		ReferenceURL:  opts.ReferenceURL,
	}

	if genSettings != "" {
		raw, err := readInput(cmd, genSettings)
		if err != nil {
			return err
		}
		flat, err := settings.FlattenJSON(raw)
		if err != nil {
			return exitFor(err)
		}
		req.Config = flat
	} else if raw, err := readOptional(cmd, genConfig); err != nil {
		return err
	} else if raw != nil {
		req.Config = json.RawMessage(raw)
	}

	if raw, err := readOptional(cmd, genBinding); err != nil {
		return err
	} else if raw != nil {
		req.Binding = json.RawMessage(raw)
	}
	if raw, err := readOptional(cmd, genFormat); err != nil {
		return err
	} else if raw != nil {
		req.Format = json.RawMessage(raw)
	}

	out, err := asm.Generate(cmd.Context(), req)
	if err != nil {
		return exitFor(err)
	}
	return writeOutput(cmd, genOutput, []byte(out))
}
