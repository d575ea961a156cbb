// Package cmd implements the command-line interface for searchfewer.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide Search Console tools for AI assistants
//   - accounts: List the accounts configured in the environment
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
