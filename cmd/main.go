package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/slipway-dev/slipway/internal/ui"
	"github.com/spf13/cobra"
)

// Version information (can be set at build time)
var (
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slipway",
	Short: "Launch local Python web apps with a single command",
	Long: `Slipway prepares everything a local Python web application needs and
then starts it: it checks the Python runtime, creates and activates a
virtual environment, installs dependencies, frees the configured port,
launches the app in the background and opens your browser to it.

Usage:
  slipway init    Inspect the project and generate a .slipway.yaml file
  slipway up      Prepare the environment and start the application
  slipway down    Stop whatever is holding the configured port
  slipway doctor  Diagnose the project without starting anything`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(doctorCmd)
}

// resolveConfigPath reads the --config flag and absolutizes it against
// the working directory, so every command resolves it the same way.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if filepath.IsAbs(path) {
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, path), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Fail(err.Error())
		os.Exit(1)
	}
}
