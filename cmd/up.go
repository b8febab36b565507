package main

import (
	"context"
	"fmt"
	"os"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/launcher"
	"github.com/spf13/cobra"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Prepare the environment and start the application",
	Long: `The up command runs the launch pipeline in order:

- Verify the Python runtime is installed
- Create or reuse the project's virtual environment
- Install dependencies from the manifest if they are missing
- Free the configured port, killing its current owner if needed
- Start the application in the background, verify it is alive,
  print its URLs and open the default browser

The first failing step aborts the run with a non-zero exit.`,
	RunE: runUp,
}

func init() {
	upCmd.Flags().StringP("config", "c", ".slipway.yaml", "Path to the configuration file")
	upCmd.Flags().IntP("port", "p", 0, "Override the port to run on (0 = use config default)")
	upCmd.Flags().Bool("no-browser", false, "Do not open the browser after startup")
}

func runUp(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	port, _ := cmd.Flags().GetInt("port")
	noBrowser, _ := cmd.Flags().GetBool("no-browser")

	configPath, err := resolveConfigPath(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}

	l := launcher.New(cfg, launcher.Options{
		WorkDir:     cwd,
		OpenBrowser: !noBrowser,
	})

	return l.Up(context.Background())
}
