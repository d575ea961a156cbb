// Package sitemap_tools provides MCP tools for managing the sitemaps of
// a Search Console property.
//
// # Available Tools
//
//   - list_sitemaps: List submitted sitemaps with status, counts,
//     warnings and errors
//   - submit_sitemap: Submit or resubmit a sitemap by absolute URL
package sitemap_tools
