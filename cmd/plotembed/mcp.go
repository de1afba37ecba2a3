// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/mcpserver"
)

var mcpExternalURL string

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running plotembed as an MCP server, exposing embed generation, settings flattening and CSV inspection to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing plotembed's tools:
  - generate_embed:   Build an embed document from a template, CSV and settings
  - flatten_settings: Flatten a settings tree, optionally annotated
  - inspect_csv:      Report the columns and records an embed would get

The server communicates using the Model Context Protocol (MCP) over stdio
transport. Logs go to stderr so they never mix with protocol messages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := loadOptions(cmd, flagOverrides{ExternalURL: &mcpExternalURL})
		if err != nil {
			return err
		}
		asm, err := newAssembler(opts)
		if err != nil {
			return err
		}
		return mcpserver.Run(cmd.Context(), Version, asm, &mcp.StdioTransport{})
	},
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpExternalURL, "external-url", "", "base URL for relative script sources")
	mcpCmd.AddCommand(mcpServeCmd)
}
