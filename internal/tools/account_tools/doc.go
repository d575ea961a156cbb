// Package account_tools provides MCP tools for managing the registered
// Google accounts.
//
// # Available Tools
//
//   - register_account: Register an account with its OAuth refresh token,
//     or replace the credentials of an existing account ID
//   - list_accounts: List registered accounts and mark the default one
//
// Refresh tokens enter the process through register_account (or the
// environment at startup) and never leave it: list_accounts and every
// other tool response omit token material entirely.
package account_tools
