package account_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/searchfewer/internal/logging"
	"github.com/teemow/searchfewer/internal/server"
	"github.com/teemow/searchfewer/internal/tools/common"
)

// RegisterAccountTools registers the account management tools with the MCP server
func RegisterAccountTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerTool := mcp.NewTool("register_account",
		mcp.WithDescription("Register a Google account with its OAuth refresh token. Re-registering an existing account ID replaces its credentials."),
		mcp.WithString("accountId",
			mcp.Required(),
			mcp.Description("Stable identifier for the account (e.g., 'work', 'personal')"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Google account email address"),
		),
		mcp.WithString("refreshToken",
			mcp.Required(),
			mcp.Description("OAuth refresh token obtained out of band"),
		),
		mcp.WithString("accessToken",
			mcp.Description("Optional access token to use until it expires, saving one refresh round-trip"),
		),
	)

	s.AddTool(registerTool, common.InstrumentedToolHandler("register_account", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRegisterAccount(ctx, request, sc)
		}))

	listTool := mcp.NewTool("list_accounts",
		mcp.WithDescription("List registered Google accounts. Refresh tokens are never included."),
	)

	s.AddTool(listTool, common.InstrumentedToolHandler("list_accounts", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListAccounts(ctx, request, sc)
		}))

	return nil
}

func handleRegisterAccount(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accountID, ok := args["accountId"].(string)
	if !ok || accountID == "" {
		return mcp.NewToolResultError("accountId is required"), nil
	}
	email, ok := args["email"].(string)
	if !ok || email == "" {
		return mcp.NewToolResultError("email is required"), nil
	}
	refreshToken, ok := args["refreshToken"].(string)
	if !ok || refreshToken == "" {
		return mcp.NewToolResultError("refreshToken is required"), nil
	}
	accessToken, _ := args["accessToken"].(string)

	replaced := false
	if _, err := sc.Accounts().Lookup(accountID); err == nil {
		replaced = true
	}

	if err := sc.Accounts().Register(accountID, email, refreshToken, accessToken); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to register account: %v", err)), nil
	}

	if !replaced {
		if metrics := sc.Metrics(); metrics != nil {
			metrics.AddRegisteredAccounts(ctx, 1)
		}
	}

	sc.Logger().Info("account registered",
		logging.Operation("register_account"),
		logging.Account(accountID),
		logging.UserHash(email),
		"replaced", replaced,
	)

	result := map[string]interface{}{
		"accountId":  accountID,
		"email":      email,
		"replaced":   replaced,
		"totalCount": sc.Accounts().Len(),
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func handleListAccounts(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	all := sc.Accounts().List()

	defaultID := ""
	if acct, err := sc.Accounts().Resolve(""); err == nil {
		defaultID = acct.ID
	}

	type accountInfo struct {
		AccountID string `json:"accountId"`
		Email     string `json:"email"`
		IsDefault bool   `json:"isDefault"`
	}

	infos := make([]accountInfo, 0, len(all))
	for _, acct := range all {
		infos = append(infos, accountInfo{
			AccountID: acct.ID,
			Email:     acct.Email,
			IsDefault: acct.ID == defaultID,
		})
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"accounts": infos,
		"count":    len(infos),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
