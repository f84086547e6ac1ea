package cmd

import (
	"fmt"
	"os"

	"github.com/campusops/canvas-mcp/internal/config"
	"github.com/spf13/cobra"
)

// Version is injected at build time via ldflags.
var Version = "development"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		runVersion()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() {
	fmt.Printf("canvas-mcp %s\n", Version)
	fmt.Println()

	// Report credential presence without touching the values. The token
	// must never reach stdout, even truncated.
	fmt.Println("Configuration:")
	printEnvPresence(config.EnvAPIURL)
	printEnvPresence(config.EnvAPIToken)

	if os.Getenv(config.EnvAPIURL) == "" || os.Getenv(config.EnvAPIToken) == "" {
		fmt.Println()
		fmt.Println("Hint: set both variables to enable the Canvas tools")
		fmt.Printf("  export %s=https://your-school.instructure.com\n", config.EnvAPIURL)
		fmt.Printf("  export %s=your-access-token\n", config.EnvAPIToken)
	}
}

func printEnvPresence(name string) {
	if os.Getenv(name) != "" {
		fmt.Printf("  %s: set\n", name)
	} else {
		fmt.Printf("  %s: not set\n", name)
	}
}
