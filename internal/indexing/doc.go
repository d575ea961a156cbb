// Package indexing wraps the Google Indexing API for submitting URL
// update and removal notifications.
//
// The Indexing API is only permitted for job posting and broadcast
// event pages unless the property owner has been granted wider access,
// so a 403 from the publish endpoint is an expected outcome for most
// sites. Publish reports that case as a structured result instead of an
// error so callers can relay the remediation steps.
package indexing
