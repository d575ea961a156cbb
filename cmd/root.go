package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the searchfewer application
var rootCmd = &cobra.Command{
	Use:   "searchfewer",
	Short: "MCP server for Google Search Console",
	Long: `searchfewer exposes Google Search Console and the Indexing API to AI
assistants over the Model Context Protocol (MCP).

It supports multiple Google accounts, search analytics queries with
quick-win detection and period comparison, sitemap management, URL
inspection, and indexing notifications.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "searchfewer version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAccountsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
