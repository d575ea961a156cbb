// Package inspection_tools provides MCP tools for URL-level index
// status and indexing notifications.
//
// # Available Tools
//
//   - inspect_url: Fetch the index status of a URL within a property
//     (coverage, canonical, mobile usability, rich results)
//   - submit_url_for_indexing: Notify Google about an updated or
//     deleted URL via the Indexing API
//
// A 403 from the Indexing API is reported as a structured
// permitted:false payload with a remediation hint rather than a tool
// error, since it is the expected answer for properties where the
// caller is not a verified owner.
package inspection_tools
