package search_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/searchfewer/internal/analytics"
	"github.com/teemow/searchfewer/internal/instrumentation"
	"github.com/teemow/searchfewer/internal/searchconsole"
	"github.com/teemow/searchfewer/internal/server"
	"github.com/teemow/searchfewer/internal/tools/common"
)

// Defaults for search analytics queries and quick-win detection.
const (
	defaultRowLimit       = 1000
	defaultSearchType     = "web"
	defaultMinImpressions = 100
	defaultMaxCTRPercent  = 2.0
	defaultPositionMin    = 4
	defaultPositionMax    = 20
	defaultQuickWinLimit  = 20
)

var validDimensions = map[string]bool{
	"query":            true,
	"page":             true,
	"country":          true,
	"device":           true,
	"date":             true,
	"searchAppearance": true,
}

var validAggregationTypes = map[string]bool{
	"auto":                true,
	"byPage":              true,
	"byProperty":          true,
	"byNewsShowcasePanel": true,
}

// RegisterSearchTools registers the site listing and search analytics tools
func RegisterSearchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listSitesTool := mcp.NewTool("list_sites",
		mcp.WithDescription("List the Search Console properties the account has access to"),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
	)

	s.AddTool(listSitesTool, common.InstrumentedToolHandlerWithService(
		"list_sites", instrumentation.ServiceSearchConsole, instrumentation.OperationListSites, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListSites(ctx, request, sc)
		}))

	searchAnalyticsTool := mcp.NewTool("search_analytics",
		mcp.WithDescription("Run a search analytics query against a Search Console property"),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
		mcp.WithString("siteUrl",
			mcp.Required(),
			mcp.Description("Property URL (e.g., 'https://example.com/' or 'sc-domain:example.com')"),
		),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Start date in YYYY-MM-DD format (inclusive)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("End date in YYYY-MM-DD format (inclusive)"),
		),
		mcp.WithArray("dimensions",
			mcp.Description("Dimensions to group by: query, page, country, device, date, searchAppearance"),
		),
		mcp.WithString("searchType",
			mcp.Description("Search type: web, image, video, news, discover, googleNews (default: web)"),
		),
		mcp.WithNumber("rowLimit",
			mcp.Description("Maximum rows to return (default: 1000, max: 25000)"),
		),
		mcp.WithNumber("startRow",
			mcp.Description("Zero-based row offset for pagination (default: 0)"),
		),
		mcp.WithString("dataState",
			mcp.Description("Set to 'all' to include fresh, not yet finalized data"),
		),
		mcp.WithString("aggregationType",
			mcp.Description("How to aggregate results: auto, byPage, byProperty, byNewsShowcasePanel (default: auto)"),
		),
		mcp.WithArray("filters",
			mcp.Description("Dimension filters: objects with 'dimension', 'expression', and optional 'operator'"),
		),
	)

	s.AddTool(searchAnalyticsTool, common.InstrumentedToolHandlerWithService(
		"search_analytics", instrumentation.ServiceSearchConsole, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchAnalytics(ctx, request, sc)
		}))

	quickWinsTool := mcp.NewTool("detect_quick_wins",
		mcp.WithDescription("Find queries that rank on page one or two but convert few clicks. These are the cheapest ranking improvements available."),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
		mcp.WithString("siteUrl",
			mcp.Required(),
			mcp.Description("Property URL (e.g., 'https://example.com/' or 'sc-domain:example.com')"),
		),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("Start date in YYYY-MM-DD format (inclusive)"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("End date in YYYY-MM-DD format (inclusive)"),
		),
		mcp.WithNumber("minImpressions",
			mcp.Description("Minimum impressions for a query to qualify (default: 100)"),
		),
		mcp.WithNumber("maxCtr",
			mcp.Description("Maximum CTR in percent for a query to qualify (default: 2.0)"),
		),
		mcp.WithNumber("positionMin",
			mcp.Description("Lower bound of the position window (default: 4)"),
		),
		mcp.WithNumber("positionMax",
			mcp.Description("Upper bound of the position window (default: 20)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum opportunities to return (default: 20)"),
		),
	)

	s.AddTool(quickWinsTool, common.InstrumentedToolHandlerWithService(
		"detect_quick_wins", instrumentation.ServiceSearchConsole, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDetectQuickWins(ctx, request, sc)
		}))

	compareTool := mcp.NewTool("compare_periods",
		mcp.WithDescription("Compare search analytics between two date ranges and report per-entry and aggregate deltas"),
		mcp.WithString("account",
			mcp.Description("Account ID or email (default: the default account)"),
		),
		mcp.WithString("siteUrl",
			mcp.Required(),
			mcp.Description("Property URL (e.g., 'https://example.com/' or 'sc-domain:example.com')"),
		),
		mcp.WithString("currentStartDate",
			mcp.Required(),
			mcp.Description("Current period start date in YYYY-MM-DD format"),
		),
		mcp.WithString("currentEndDate",
			mcp.Required(),
			mcp.Description("Current period end date in YYYY-MM-DD format"),
		),
		mcp.WithString("previousStartDate",
			mcp.Required(),
			mcp.Description("Previous period start date in YYYY-MM-DD format"),
		),
		mcp.WithString("previousEndDate",
			mcp.Required(),
			mcp.Description("Previous period end date in YYYY-MM-DD format"),
		),
		mcp.WithArray("dimensions",
			mcp.Description("Dimensions to compare on (default: ['query'])"),
		),
		mcp.WithNumber("rowLimit",
			mcp.Description("Maximum rows to fetch per period (default: 1000, max: 25000)"),
		),
	)

	s.AddTool(compareTool, common.InstrumentedToolHandlerWithService(
		"compare_periods", instrumentation.ServiceSearchConsole, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleComparePeriods(ctx, request, sc)
		}))

	return nil
}

func searchConsoleClient(ctx context.Context, sc *server.ServerContext, args map[string]interface{}) (*searchconsole.Client, *mcp.CallToolResult) {
	acct, err := common.ResolveAccount(sc, common.GetAccountFromArgs(args))
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	client, err := sc.Auth().SearchConsole(ctx, acct)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to authenticate account %q: %v", acct.ID, err))
	}
	return client, nil
}

func handleListSites(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errResult := searchConsoleClient(ctx, sc, request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	sites, err := client.ListSites(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list sites: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"sites": sites,
		"count": len(sites),
	})
}

func handleSearchAnalytics(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteURL, ok := args["siteUrl"].(string)
	if !ok || siteURL == "" {
		return mcp.NewToolResultError("siteUrl is required"), nil
	}
	startDate, endDate, errMsg := dateRange(args, "startDate", "endDate")
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	dimensions, errMsg := dimensionList(args, "dimensions", nil)
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	rowLimit := int64(defaultRowLimit)
	if v, ok := args["rowLimit"].(float64); ok {
		rowLimit = int64(v)
	}
	if rowLimit < 1 || rowLimit > searchconsole.MaxRowLimit {
		return mcp.NewToolResultError(fmt.Sprintf("rowLimit must be between 1 and %d", searchconsole.MaxRowLimit)), nil
	}

	startRow := int64(0)
	if v, ok := args["startRow"].(float64); ok {
		startRow = int64(v)
	}
	if startRow < 0 {
		return mcp.NewToolResultError("startRow must not be negative"), nil
	}

	searchType := defaultSearchType
	if v, ok := args["searchType"].(string); ok && v != "" {
		searchType = v
	}

	dataState := ""
	if v, ok := args["dataState"].(string); ok {
		dataState = v
	}

	aggregationType := ""
	if v, ok := args["aggregationType"].(string); ok && v != "" {
		if !validAggregationTypes[v] {
			return mcp.NewToolResultError(fmt.Sprintf("invalid aggregationType %q; valid values are auto, byPage, byProperty, byNewsShowcasePanel", v)), nil
		}
		aggregationType = v
	}

	filters, errMsg := filterList(args)
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	client, errResult := searchConsoleClient(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	result, err := client.Query(ctx, siteURL, searchconsole.QueryRequest{
		StartDate:       startDate,
		EndDate:         endDate,
		Dimensions:      dimensions,
		SearchType:      searchType,
		AggregationType: aggregationType,
		RowLimit:        rowLimit,
		StartRow:        startRow,
		DataState:       dataState,
		Filters:         filters,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Search analytics query failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"siteUrl":    siteURL,
		"startDate":  startDate,
		"endDate":    endDate,
		"dimensions": dimensions,
		"rowCount":   len(result.Rows),
		"rows":       result.Rows,
	})
}

func handleDetectQuickWins(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteURL, ok := args["siteUrl"].(string)
	if !ok || siteURL == "" {
		return mcp.NewToolResultError("siteUrl is required"), nil
	}
	startDate, endDate, errMsg := dateRange(args, "startDate", "endDate")
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	th := analytics.Thresholds{
		MinImpressions: defaultMinImpressions,
		MaxCTRPercent:  defaultMaxCTRPercent,
		PositionMin:    defaultPositionMin,
		PositionMax:    defaultPositionMax,
		Limit:          defaultQuickWinLimit,
	}
	if v, ok := args["minImpressions"].(float64); ok {
		th.MinImpressions = v
	}
	if v, ok := args["maxCtr"].(float64); ok {
		th.MaxCTRPercent = v
	}
	if v, ok := args["positionMin"].(float64); ok {
		th.PositionMin = v
	}
	if v, ok := args["positionMax"].(float64); ok {
		th.PositionMax = v
	}
	if v, ok := args["limit"].(float64); ok {
		th.Limit = int(v)
	}
	if th.PositionMin > th.PositionMax {
		return mcp.NewToolResultError("positionMin must not exceed positionMax"), nil
	}

	client, errResult := searchConsoleClient(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	// Pull the full query+page breakdown; the scoring happens locally.
	result, err := client.Query(ctx, siteURL, searchconsole.QueryRequest{
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: []string{"query", "page"},
		SearchType: defaultSearchType,
		RowLimit:   searchconsole.MaxRowLimit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Search analytics query failed: %v", err)), nil
	}

	report := analytics.QuickWins(result.Rows, th)
	return jsonResult(map[string]interface{}{
		"siteUrl":   siteURL,
		"startDate": startDate,
		"endDate":   endDate,
		"report":    report,
	})
}

func handleComparePeriods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	siteURL, ok := args["siteUrl"].(string)
	if !ok || siteURL == "" {
		return mcp.NewToolResultError("siteUrl is required"), nil
	}
	curStart, curEnd, errMsg := dateRange(args, "currentStartDate", "currentEndDate")
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}
	prevStart, prevEnd, errMsg := dateRange(args, "previousStartDate", "previousEndDate")
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	dimensions, errMsg := dimensionList(args, "dimensions", []string{"query"})
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	rowLimit := int64(defaultRowLimit)
	if v, ok := args["rowLimit"].(float64); ok {
		rowLimit = int64(v)
	}
	if rowLimit < 1 || rowLimit > searchconsole.MaxRowLimit {
		return mcp.NewToolResultError(fmt.Sprintf("rowLimit must be between 1 and %d", searchconsole.MaxRowLimit)), nil
	}

	client, errResult := searchConsoleClient(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	current, err := client.Query(ctx, siteURL, searchconsole.QueryRequest{
		StartDate:  curStart,
		EndDate:    curEnd,
		Dimensions: dimensions,
		SearchType: defaultSearchType,
		RowLimit:   rowLimit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Query for current period failed: %v", err)), nil
	}

	previous, err := client.Query(ctx, siteURL, searchconsole.QueryRequest{
		StartDate:  prevStart,
		EndDate:    prevEnd,
		Dimensions: dimensions,
		SearchType: defaultSearchType,
		RowLimit:   rowLimit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Query for previous period failed: %v", err)), nil
	}

	report := analytics.ComparePeriods(current.Rows, previous.Rows, dimensions)
	return jsonResult(map[string]interface{}{
		"siteUrl": siteURL,
		"currentPeriod": map[string]string{
			"startDate": curStart,
			"endDate":   curEnd,
		},
		"previousPeriod": map[string]string{
			"startDate": prevStart,
			"endDate":   prevEnd,
		},
		"report": report,
	})
}

// dateRange extracts and validates a start/end date pair from arguments.
// Returns an error message instead of an error so callers can hand it
// straight to NewToolResultError.
func dateRange(args map[string]interface{}, startKey, endKey string) (start, end, errMsg string) {
	start, _ = args[startKey].(string)
	end, _ = args[endKey].(string)
	if start == "" {
		return "", "", startKey + " is required"
	}
	if end == "" {
		return "", "", endKey + " is required"
	}
	startTime, err := time.Parse("2006-01-02", start)
	if err != nil {
		return "", "", fmt.Sprintf("%s must be in YYYY-MM-DD format, got %q", startKey, start)
	}
	endTime, err := time.Parse("2006-01-02", end)
	if err != nil {
		return "", "", fmt.Sprintf("%s must be in YYYY-MM-DD format, got %q", endKey, end)
	}
	if endTime.Before(startTime) {
		return "", "", fmt.Sprintf("%s must not be before %s", endKey, startKey)
	}
	return start, end, ""
}

// dimensionList extracts a list of dimensions, validating each against
// the set the API accepts.
func dimensionList(args map[string]interface{}, key string, fallback []string) ([]string, string) {
	raw, ok := args[key].([]interface{})
	if !ok {
		return fallback, ""
	}
	dims := make([]string, 0, len(raw))
	for _, entry := range raw {
		dim, ok := entry.(string)
		if !ok || !validDimensions[dim] {
			return nil, fmt.Sprintf("invalid dimension %v; valid dimensions are query, page, country, device, date, searchAppearance", entry)
		}
		dims = append(dims, dim)
	}
	if len(dims) == 0 {
		return fallback, ""
	}
	return dims, ""
}

// filterList extracts dimension filters. A missing operator defaults to
// "contains" for page and query filters and "equals" for the rest.
func filterList(args map[string]interface{}) ([]searchconsole.DimensionFilter, string) {
	raw, ok := args["filters"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, ""
	}

	filters := make([]searchconsole.DimensionFilter, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, "each filter must be an object with 'dimension' and 'expression'"
		}
		dim, _ := obj["dimension"].(string)
		if !validDimensions[dim] {
			return nil, fmt.Sprintf("invalid filter dimension %q", dim)
		}
		expr, _ := obj["expression"].(string)
		if expr == "" {
			return nil, fmt.Sprintf("filter on %q is missing an expression", dim)
		}
		op, _ := obj["operator"].(string)
		if op == "" {
			if dim == "page" || dim == "query" {
				op = "contains"
			} else {
				op = "equals"
			}
		}
		filters = append(filters, searchconsole.DimensionFilter{
			Dimension:  dim,
			Operator:   op,
			Expression: expr,
		})
	}
	return filters, ""
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
