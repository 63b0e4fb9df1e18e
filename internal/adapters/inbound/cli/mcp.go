package cli

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/abdidvp/kraftstore/internal/adapters/inbound/mcp"
)

func newMCPCmd(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the kraftstore MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(dir))
	return cmd
}

func newMCPServeCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog MCP server (stdio)",
		Long: "Start a read-only MCP server over stdio so AI assistants can search products " +
			"and list categories in the configured store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, *dir, func(_ context.Context, svc *services) error {
				return server.ServeStdio(mcpadapter.NewCatalogMCPServer(svc.catalog, version))
			})
		},
	}
}
