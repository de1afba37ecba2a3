package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/csvdata"
	"github.com/plotset/plotembed/internal/report"
)

var inspectJSON bool

// inspectCmd summarizes a CSV file the way embeds will see it.
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the columns and records an embed would get from a CSV file",
	Long: `Parse a CSV file exactly as generate does and print its columns, record
count, blank records and per-column empty cells. Generated placeholder column
names are marked.

Pass a file path as an argument, or pipe the CSV via stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the summary as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	text := string(data)

	header, err := csvdata.RawHeader(text)
	if err != nil {
		return exitFor(err)
	}
	rs, err := csvdata.Parse(cmd.Context(), text)
	if err != nil {
		return exitFor(err)
	}
	sum := csvdata.Summarize(rs, header)

	w := cmd.OutOrStdout()
	if inspectJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	tbl := report.NewTable(
		report.Column{Header: "#", Align: report.AlignRight},
		report.Column{Header: "COLUMN"},
		report.Column{Header: "EMPTY", Align: report.AlignRight, Color: report.ColorCount},
		report.Column{Header: "NOTE"},
	)
	for _, c := range sum.Columns {
		note := ""
		if c.Placeholder {
			note = "generated name"
		}
		tbl.AddRow(strconv.Itoa(c.Index), c.Name, strconv.Itoa(c.Empty), note)
	}

	_, _ = fmt.Fprintln(w, report.SectionTitle("Columns"))
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n%d records, %d blank\n", sum.Records, sum.Blank)
	return nil
}
