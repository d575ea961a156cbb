// Package logging provides structured logging utilities for the searchfewer application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "searchconsole.query")
//	logger.Info("querying analytics",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("account operation",
//	    logging.UserHash(email))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Account emails are hashed to prevent PII leakage while allowing correlation
//   - Refresh and access tokens are never logged directly
package logging
