package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/kraftstore/internal/application"
)

const (
	categoriesURI  = "kraftstore://categories"
	productsPrefix = "kraftstore://products/"
)

func registerResources(s *server.MCPServer, catalog *application.CatalogService) {
	s.AddResource(
		mcplib.NewResource(
			categoriesURI,
			"Categories",
			mcplib.WithResourceDescription("Catalog categories with product counts"),
			mcplib.WithMIMEType("application/json"),
		),
		handleCategoriesResource(catalog),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			productsPrefix+"{id}",
			"Product",
			mcplib.WithTemplateDescription("A single catalog product"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleProductResource(catalog),
	)
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func handleCategoriesResource(catalog *application.CatalogService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		categories, err := catalog.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing categories: %w", err)
		}
		return jsonContents(categoriesURI, summarize(categories))
	}
}

func handleProductResource(catalog *application.CatalogService) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		// The id is taken from the URI itself; template argument types vary
		// between mcp-go releases.
		id := strings.TrimPrefix(request.Params.URI, productsPrefix)
		if id == "" || id == request.Params.URI {
			return nil, fmt.Errorf("product id is required")
		}

		p, err := catalog.GetProduct(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading product %s: %w", id, err)
		}
		return jsonContents(request.Params.URI, p)
	}
}
