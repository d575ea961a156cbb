package sitemap_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/searchfewer/internal/instrumentation"
	"github.com/teemow/searchfewer/internal/server"
	"github.com/teemow/searchfewer/internal/tools/common"
)

// RegisterSitemapTools registers the sitemap tools with the MCP server
func RegisterSitemapTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list_sitemaps",
		mcp.WithDescription("List the sitemaps submitted for a Search Console property, including error and warning counts"),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
		mcp.WithString("siteUrl",
			mcp.Required(),
			mcp.Description("Property URL (e.g., 'https://example.com/' or 'sc-domain:example.com')"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"list_sitemaps", instrumentation.ServiceSearchConsole, instrumentation.OperationListSitemaps, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListSitemaps(ctx, request, sc)
		}))

	submitTool := mcp.NewTool("submit_sitemap",
		mcp.WithDescription("Submit a sitemap to Search Console for a property"),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
		mcp.WithString("siteUrl",
			mcp.Required(),
			mcp.Description("Property URL (e.g., 'https://example.com/' or 'sc-domain:example.com')"),
		),
		mcp.WithString("feedpath",
			mcp.Required(),
			mcp.Description("Absolute URL of the sitemap (e.g., 'https://example.com/sitemap.xml')"),
		),
	)

	s.AddTool(submitTool, common.InstrumentedToolHandlerWithService(
		"submit_sitemap", instrumentation.ServiceSearchConsole, instrumentation.OperationSubmit, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSubmitSitemap(ctx, request, sc)
		}))

	return nil
}

func handleListSitemaps(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteURL, ok := args["siteUrl"].(string)
	if !ok || siteURL == "" {
		return mcp.NewToolResultError("siteUrl is required"), nil
	}

	acct, err := common.ResolveAccount(sc, common.GetAccountFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	client, err := sc.Auth().SearchConsole(ctx, acct)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to authenticate account %q: %v", acct.ID, err)), nil
	}

	sitemaps, err := client.ListSitemaps(ctx, siteURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list sitemaps: %v", err)), nil
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"siteUrl":  siteURL,
		"sitemaps": sitemaps,
		"count":    len(sitemaps),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func handleSubmitSitemap(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteURL, ok := args["siteUrl"].(string)
	if !ok || siteURL == "" {
		return mcp.NewToolResultError("siteUrl is required"), nil
	}
	feedpath, ok := args["feedpath"].(string)
	if !ok || feedpath == "" {
		return mcp.NewToolResultError("feedpath is required"), nil
	}
	if parsed, err := url.Parse(feedpath); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return mcp.NewToolResultError(fmt.Sprintf("feedpath must be an absolute URL, got %q", feedpath)), nil
	}

	acct, err := common.ResolveAccount(sc, common.GetAccountFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	client, err := sc.Auth().SearchConsole(ctx, acct)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to authenticate account %q: %v", acct.ID, err)), nil
	}

	if err := client.SubmitSitemap(ctx, siteURL, feedpath); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to submit sitemap: %v", err)), nil
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"siteUrl":   siteURL,
		"feedpath":  feedpath,
		"submitted": true,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
