// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/plotset/plotembed/internal/embed"
)

// New creates an MCP server with plotembed's tools registered. Generated
// documents use asm.
func New(version string, asm *embed.Assembler) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "plotembed",
		Title:   "Plotembed: PlotSet embed generator",
		Version: version,
	}, nil)

	registerTools(server, &tools{asm: asm})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, asm *embed.Assembler, transport mcp.Transport) error {
	return New(version, asm).Run(ctx, transport)
}
