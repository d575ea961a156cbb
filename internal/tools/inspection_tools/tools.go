package inspection_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/searchfewer/internal/indexing"
	"github.com/teemow/searchfewer/internal/instrumentation"
	"github.com/teemow/searchfewer/internal/server"
	"github.com/teemow/searchfewer/internal/tools/common"
)

const defaultLanguageCode = "en-US"

// RegisterInspectionTools registers URL inspection and indexing tools
func RegisterInspectionTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	inspectTool := mcp.NewTool("inspect_url",
		mcp.WithDescription("Inspect a URL's index status within a Search Console property"),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
		mcp.WithString("siteUrl",
			mcp.Required(),
			mcp.Description("Property URL the inspected URL belongs to"),
		),
		mcp.WithString("inspectionUrl",
			mcp.Required(),
			mcp.Description("Fully qualified URL to inspect"),
		),
		mcp.WithString("languageCode",
			mcp.Description("BCP-47 language code for the response (default: 'en-US')"),
		),
	)

	s.AddTool(inspectTool, common.InstrumentedToolHandlerWithService(
		"inspect_url", instrumentation.ServiceSearchConsole, instrumentation.OperationInspect, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleInspectURL(ctx, request, sc)
		}))

	submitTool := mcp.NewTool("submit_url_for_indexing",
		mcp.WithDescription("Notify Google that a URL has been updated or deleted via the Indexing API. Officially supported for JobPosting and BroadcastEvent pages."),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Fully qualified URL to notify Google about"),
		),
		mcp.WithString("type",
			mcp.Description("Notification type: URL_UPDATED or URL_DELETED (default: URL_UPDATED)"),
		),
	)

	s.AddTool(submitTool, common.InstrumentedToolHandlerWithService(
		"submit_url_for_indexing", instrumentation.ServiceIndexing, instrumentation.OperationPublish, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSubmitURLForIndexing(ctx, request, sc)
		}))

	return nil
}

func handleInspectURL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteURL, ok := args["siteUrl"].(string)
	if !ok || siteURL == "" {
		return mcp.NewToolResultError("siteUrl is required"), nil
	}
	inspectionURL, ok := args["inspectionUrl"].(string)
	if !ok || inspectionURL == "" {
		return mcp.NewToolResultError("inspectionUrl is required"), nil
	}
	if parsed, err := url.Parse(inspectionURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return mcp.NewToolResultError(fmt.Sprintf("inspectionUrl must be an absolute URL, got %q", inspectionURL)), nil
	}

	languageCode := defaultLanguageCode
	if v, ok := args["languageCode"].(string); ok && v != "" {
		languageCode = v
	}

	acct, err := common.ResolveAccount(sc, common.GetAccountFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	client, err := sc.Auth().SearchConsole(ctx, acct)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to authenticate account %q: %v", acct.ID, err)), nil
	}

	result, err := client.InspectURL(ctx, siteURL, inspectionURL, languageCode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("URL inspection failed: %v", err)), nil
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"siteUrl":       siteURL,
		"inspectionUrl": inspectionURL,
		"result":        result,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func handleSubmitURLForIndexing(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	target, ok := args["url"].(string)
	if !ok || target == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	if parsed, err := url.Parse(target); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return mcp.NewToolResultError(fmt.Sprintf("url must be an absolute URL, got %q", target)), nil
	}

	notificationType := indexing.TypeURLUpdated
	if v, ok := args["type"].(string); ok && v != "" {
		notificationType = v
	}
	if !indexing.ValidType(notificationType) {
		return mcp.NewToolResultError(fmt.Sprintf("type must be %s or %s", indexing.TypeURLUpdated, indexing.TypeURLDeleted)), nil
	}

	acct, err := common.ResolveAccount(sc, common.GetAccountFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	client, err := sc.Auth().Indexing(ctx, acct)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to authenticate account %q: %v", acct.ID, err)), nil
	}

	result, err := client.Publish(ctx, target, notificationType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Indexing notification failed: %v", err)), nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
