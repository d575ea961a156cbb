package common

import (
	"errors"
	"fmt"

	"github.com/teemow/searchfewer/internal/accounts"
	"github.com/teemow/searchfewer/internal/server"
)

// GetAccountFromArgs extracts the account selector from request
// arguments. An empty string means "use the default account".
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok {
		return accountVal
	}
	return ""
}

// ResolveAccount resolves the selector against the store and returns a
// tool-friendly error message when it cannot be satisfied.
func ResolveAccount(sc *server.ServerContext, selector string) (accounts.Account, error) {
	acct, err := sc.Accounts().Resolve(selector)
	if err == nil {
		return acct, nil
	}

	var notFound *accounts.NotFoundError
	switch {
	case errors.Is(err, accounts.ErrNoAccounts):
		return accounts.Account{}, errors.New("no accounts registered. Use the register_account tool or set GSC_REFRESH_TOKEN before calling Search Console tools")
	case errors.As(err, &notFound):
		return accounts.Account{}, fmt.Errorf("account %q not found. Use list_accounts to see registered accounts", selector)
	default:
		return accounts.Account{}, err
	}
}
