// Package searchconsole wraps the Google Search Console API.
//
// The Client exposes site listing, search analytics queries, sitemap
// management and URL inspection with plain result types, so tool
// handlers never deal with the raw API structs.
//
// Calls parameterized by a site URL apply a one-shot permission
// fallback: if the API rejects the literal URL with a permission error,
// the call is retried once with the URL normalized to the domain
// property form (sc-domain:host). Many properties are verified at the
// domain level while users pass the full https:// URL; the fallback
// papers over that mismatch without masking real permission problems.
package searchconsole
