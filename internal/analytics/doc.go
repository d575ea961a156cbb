// Package analytics derives opportunity and trend reports from Search
// Console performance rows. All transforms are pure: they take rows
// already fetched through the reporting client and never call the API
// themselves.
package analytics
