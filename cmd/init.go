package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/slipway-dev/slipway/internal/analyzer"
	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/ui"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Analyze the project and generate a .slipway.yaml file",
	Long: `The init command inspects your current directory to detect:
- The application entry point (app.py, main.py, ...)
- The web framework declared in requirements.txt
- The command needed to start the app

It then generates a .slipway.yaml configuration file that can be used
with 'slipway up' to start your application locally.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringP("output", "o", ".slipway.yaml", "Output file path for the configuration")
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cwd, outputPath)
	}

	if _, err := os.Stat(outputPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s. Use --force to overwrite", outputPath)
	}

	analysis, err := analyzer.Analyze(cwd)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	cfg := analysis.Config()
	if err := config.Write(outputPath, cfg); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	ui.Success(fmt.Sprintf("Configuration written to %s", outputPath))
	ui.Info(fmt.Sprintf("Detected entry point %s (probe package: %s)", analysis.Entry, analysis.Probe))
	ui.Info("Run 'slipway up' to start your application")

	return nil
}
