// Package search_tools provides MCP tools for Search Console reporting
// and the derived analytics built on top of it.
//
// # Available Tools
//
//   - list_sites: List the properties the account has access to
//   - search_analytics: Run a search analytics query with dimensions,
//     filters, pagination and search type
//   - detect_quick_wins: Rank queries with strong impressions but weak
//     CTR in a recoverable position window
//   - compare_periods: Compare two date ranges per dimension tuple with
//     per-entry and aggregate deltas
//
// The analytics tools fetch rows through the same reporting facade as
// search_analytics and hand them to internal/analytics; they never do
// their own arithmetic.
package search_tools
