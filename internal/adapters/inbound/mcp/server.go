package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/kraftstore/internal/application"
)

// NewCatalogMCPServer creates an MCP server exposing the read side of the
// catalog to agents. Nothing it registers can change stock or orders.
func NewCatalogMCPServer(catalog *application.CatalogService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"kraftstore",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, catalog)
	registerResources(s, catalog)

	return s
}
