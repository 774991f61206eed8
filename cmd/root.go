package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the applecal application
var rootCmd = &cobra.Command{
	Use:   "applecal",
	Short: "MCP server for the macOS Calendar application",
	Long: `applecal exposes the macOS Calendar application to AI assistants via the
Model Context Protocol (MCP).

Calendar is driven through its AppleScript automation interface, so the
server must run on the same machine as Calendar.app. All calendar data
stays inside Calendar; applecal keeps no state of its own.`,
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
	rootCmd.SetVersionTemplate(`{{printf "applecal version %s\n" .Version}}`)

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
	rootCmd.AddCommand(newVersionCmd())
}
