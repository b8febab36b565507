package main

import (
	"fmt"
	"time"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/ports"
	"github.com/slipway-dev/slipway/internal/ui"
	"github.com/spf13/cobra"
)

// downCmd represents the down command
var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop whatever is holding the configured port",
	Long: `The down command finds the process listening on the configured port,
kills it forcefully and verifies the port is free afterwards. It is the
counterpart of 'slipway up' for an app that was left running.`,
	RunE: runDown,
}

func init() {
	downCmd.Flags().StringP("config", "c", ".slipway.yaml", "Path to the configuration file")
	downCmd.Flags().IntP("port", "p", 0, "Override the port to free (0 = use config default)")
}

func runDown(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")

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

	pid := ports.PIDOnPort(cfg.Port)
	if pid == 0 {
		ui.Info(fmt.Sprintf("Nothing is listening on port %d", cfg.Port))
		return nil
	}

	ui.Info(fmt.Sprintf("Stopping PID %d on port %d", pid, cfg.Port))
	killed, err := ports.Free(cfg.Port, time.Second)
	if err != nil {
		return err
	}
	if killed {
		ui.Success(fmt.Sprintf("Port %d is free", cfg.Port))
	}
	return nil
}
