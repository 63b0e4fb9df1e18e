package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopspring/decimal"

	"github.com/abdidvp/kraftstore/internal/application"
	"github.com/abdidvp/kraftstore/internal/domain"
)

func registerTools(s *server.MCPServer, catalog *application.CatalogService) {
	// 1. kraftstore_search_products
	s.AddTool(
		mcplib.NewTool("kraftstore_search_products",
			mcplib.WithDescription("Search the catalog. All filters are optional and combine with AND; results are newest first."),
			mcplib.WithString("search", mcplib.Description("Case-insensitive substring of the name or description")),
			mcplib.WithString("category", mcplib.Description("Exact category name")),
			mcplib.WithString("min_price", mcplib.Description("Lowest price, inclusive (e.g. 9.99)")),
			mcplib.WithString("max_price", mcplib.Description("Highest price, inclusive")),
			mcplib.WithBoolean("featured", mcplib.Description("Only featured (true) or non-featured (false) products")),
		),
		handleSearchProducts(catalog),
	)

	// 2. kraftstore_get_product
	s.AddTool(
		mcplib.NewTool("kraftstore_get_product",
			mcplib.WithDescription("Returns one product with its specifications and stock"),
			mcplib.WithString("id",
				mcplib.Required(),
				mcplib.Description("Product ID"),
			),
		),
		handleGetProduct(catalog),
	)

	// 3. kraftstore_list_categories
	s.AddTool(
		mcplib.NewTool("kraftstore_list_categories",
			mcplib.WithDescription("Lists every category with its product count"),
		),
		handleListCategories(catalog),
	)
}

func parsePrice(args map[string]any, key string) (*decimal.Decimal, error) {
	raw, _ := args[key].(string)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &d, nil
}

func handleSearchProducts(catalog *application.CatalogService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()

		var f domain.ProductFilter
		f.Search, _ = args["search"].(string)
		f.Category, _ = args["category"].(string)
		if featured, ok := args["featured"].(bool); ok {
			f.Featured = &featured
		}
		var err error
		if f.MinPrice, err = parsePrice(args, "min_price"); err != nil {
			return errorResult(err.Error()), nil
		}
		if f.MaxPrice, err = parsePrice(args, "max_price"); err != nil {
			return errorResult(err.Error()), nil
		}

		products, err := catalog.ListProducts(ctx, f)
		if err != nil {
			return errorResult(fmt.Sprintf("search failed: %v", err)), nil
		}
		return jsonResult(products)
	}
}

func handleGetProduct(catalog *application.CatalogService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		p, err := catalog.GetProduct(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return errorResult(fmt.Sprintf("product %q not found", id)), nil
		}
		if err != nil {
			return errorResult(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		return jsonResult(p)
	}
}

func handleListCategories(catalog *application.CatalogService) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		categories, err := catalog.Categories(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("listing categories failed: %v", err)), nil
		}
		return jsonResult(summarize(categories))
	}
}

// categorySummary drops the embedded products; agents ask for those by search.
type categorySummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func summarize(categories []domain.Category) []categorySummary {
	out := make([]categorySummary, 0, len(categories))
	for _, c := range categories {
		out = append(out, categorySummary{Name: c.Name, Count: c.Count})
	}
	return out
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
