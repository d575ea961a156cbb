// Package auth owns the authenticated Google API clients for each
// registered account.
//
// The Manager lazily builds one client handle per account id and keeps
// it until the account's credentials are replaced. Access tokens are
// refreshed through the account's long-lived refresh token whenever the
// cached token is missing or within 60 seconds of expiry, and every
// refresh writes the new token back into the account store so the
// handle and the record never drift apart. At most one refresh is in
// flight per account; concurrent callers wait for and reuse its result.
package auth
