// Package accounts holds the in-memory registry of Google accounts and
// their OAuth credentials.
//
// Each account is reachable by its caller-chosen id and by its email
// address (case-insensitive). Accounts live for the duration of the
// process; they are created from configuration at startup or registered
// at runtime through the register_account tool, and their access token
// is updated in place whenever a refresh succeeds. There is no eviction.
//
// The Store is safe for concurrent use. All mutation goes through
// Register and UpdateToken; lookups return snapshot copies so callers
// never observe a partially written record.
package accounts
