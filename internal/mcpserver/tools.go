package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/plotset/plotembed/internal/csvdata"
	"github.com/plotset/plotembed/internal/embed"
	"github.com/plotset/plotembed/internal/output"
	"github.com/plotset/plotembed/internal/settings"
)

// GenerateInput is the input schema for the generate_embed tool. Each
// document input may be given inline or as a file path, not both.
type GenerateInput struct {
	Template     string `json:"template,omitempty" jsonschema:"HTML template markup"`
	TemplatePath string `json:"template_path,omitempty" jsonschema:"Path to the HTML template"`
	CSV          string `json:"csv,omitempty" jsonschema:"CSV data with a header line"`
	CSVPath      string `json:"csv_path,omitempty" jsonschema:"Path to the CSV data"`
	Config       string `json:"config,omitempty" jsonschema:"Chart config as JSON text"`
	Settings     string `json:"settings,omitempty" jsonschema:"Settings tree as JSON text; flattened and used as config"`
	SettingsPath string `json:"settings_path,omitempty" jsonschema:"Path to a settings tree JSON file"`
	Binding      string `json:"binding,omitempty" jsonschema:"Column binding as JSON text"`
	Format       string `json:"format,omitempty" jsonschema:"Column format as JSON text"`
	Watermark    bool   `json:"show_watermark,omitempty" jsonschema:"Show the floating watermark"`
	ReferenceURL string `json:"reference_url,omitempty" jsonschema:"Absolute http(s) URL the embed links back to"`
}

// FlattenInput is the input schema for the flatten_settings tool.
type FlattenInput struct {
	Settings     string `json:"settings,omitempty" jsonschema:"Settings tree as JSON text"`
	SettingsPath string `json:"settings_path,omitempty" jsonschema:"Path to a settings tree JSON file"`
	Format       string `json:"format,omitempty" jsonschema:"Output format: json, annotated, yaml (default: json)"`
}

// InspectInput is the input schema for the inspect_csv tool.
type InspectInput struct {
	CSV     string `json:"csv,omitempty" jsonschema:"CSV data with a header line"`
	CSVPath string `json:"csv_path,omitempty" jsonschema:"Path to the CSV data"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

type tools struct {
	asm *embed.Assembler
}

// registerTools adds all plotembed tools to the MCP server.
func registerTools(server *mcp.Server, t *tools) {
	readOnly := &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_embed",
		Description: "Build a self-contained PlotSet embed document from an HTML template, CSV data and chart settings. Returns the HTML.",
		Annotations: readOnly,
	}, t.handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "flatten_settings",
		Description: "Flatten a PlotSet settings tree into a field-to-default map, optionally annotated with widget type comments.",
		Annotations: readOnly,
	}, t.handleFlatten)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect_csv",
		Description: "Parse CSV data the way embeds do and report its columns, record count, blank records and empty cells.",
		Annotations: readOnly,
	}, t.handleInspect)
}

func textResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: s},
		},
	}
}

func (t *tools) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, any, error) {
	tmpl, err := source("template", input.Template, input.TemplatePath)
	if err != nil {
		return nil, nil, err
	}
	data, err := source("csv", input.CSV, input.CSVPath)
	if err != nil {
		return nil, nil, err
	}
	tree, err := source("settings", input.Settings, input.SettingsPath)
	if err != nil {
		return nil, nil, err
	}
	if tree != "" && input.Config != "" {
		return nil, nil, fmt.Errorf("config and settings are mutually exclusive")
	}

	req := embed.Request{
		Template:      tmpl,
		CSV:           data,
		ShowWatermark: input.Watermark,
		ReferenceURL:  input.ReferenceURL,
	}
	if tree != "" {
		flat, err := settings.FlattenJSON([]byte(tree))
		if err != nil {
			return nil, nil, err
		}
		req.Config = flat
	} else if input.Config != "" {
		req.Config = input.Config
	}
	if input.Binding != "" {
		req.Binding = input.Binding
	}
	if input.Format != "" {
		req.Format = input.Format
	}

	out, err := t.asm.Generate(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return textResult(out), nil, nil
}

func (t *tools) handleFlatten(_ context.Context, _ *mcp.CallToolRequest, input FlattenInput) (*mcp.CallToolResult, any, error) {
	text, err := source("settings", input.Settings, input.SettingsPath)
	if err != nil {
		return nil, nil, err
	}

	format := "json"
	if input.Format != "" {
		format = input.Format
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}

	tree, err := settings.Parse([]byte(text))
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := formatter.Format(tree, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	return textResult(buf.String()), nil, nil
}

func (t *tools) handleInspect(ctx context.Context, _ *mcp.CallToolRequest, input InspectInput) (*mcp.CallToolResult, any, error) {
	text, err := source("csv", input.CSV, input.CSVPath)
	if err != nil {
		return nil, nil, err
	}

	header, err := csvdata.RawHeader(text)
	if err != nil {
		return nil, nil, err
	}
	rs, err := csvdata.Parse(ctx, text)
	if err != nil {
		return nil, nil, err
	}

	out, err := json.MarshalIndent(csvdata.Summarize(rs, header), "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding summary: %w", err)
	}
	return textResult(string(out)), nil, nil
}
