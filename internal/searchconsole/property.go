package searchconsole

import (
	"errors"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
)

// DomainPropertyPrefix marks a property verified at the domain level.
const DomainPropertyPrefix = "sc-domain:"

// NormalizeProperty converts a full site URL into its domain property
// form: https://www.example.com/path becomes sc-domain:www.example.com.
// Inputs already in domain property form, or anything that does not
// parse as a URL with a host, are returned unchanged.
func NormalizeProperty(siteURL string) string {
	if strings.HasPrefix(siteURL, DomainPropertyPrefix) {
		return siteURL
	}
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return siteURL
	}
	return DomainPropertyPrefix + u.Host
}

// isPermissionError reports whether an API error indicates the caller
// lacks access to the property as addressed, which is the only class of
// failure the domain-property retry can fix.
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 403 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission") || strings.Contains(msg, "insufficient")
}

// withPropertyFallback runs fn with the literal site URL and, if that
// fails with a permission error and the normalized form differs,
// retries exactly once with the domain property form. The second
// failure propagates unchanged; non-permission errors are never
// retried.
func withPropertyFallback[T any](siteURL string, fn func(site string) (T, error)) (T, error) {
	out, err := fn(siteURL)
	if err == nil || !isPermissionError(err) {
		return out, err
	}
	normalized := NormalizeProperty(siteURL)
	if normalized == siteURL {
		return out, err
	}
	return fn(normalized)
}
