package main

import (
	"context"
	"fmt"
	"os"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/deps"
	"github.com/slipway-dev/slipway/internal/ports"
	"github.com/slipway-dev/slipway/internal/pyenv"
	"github.com/slipway-dev/slipway/internal/ui"
	"github.com/spf13/cobra"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the project without changing anything",
	Long: `The doctor command runs the same checks as 'slipway up' in a
read-only mode: Python runtime, virtual environment, dependency manifest,
probe package and port availability. Nothing is installed or killed.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringP("config", "c", ".slipway.yaml", "Path to the configuration file")
	doctorCmd.Flags().IntP("port", "p", 0, "Override the port to check (0 = use config default)")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

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

	healthy := true

	// Python runtime
	interp, err := pyenv.FindInterpreter()
	if err != nil {
		ui.Fail(err.Error())
		healthy = false
	} else {
		ui.Success(fmt.Sprintf("%s (%s)", interp.Version, interp.Path))
	}

	// Virtual environment
	venv, found := pyenv.FindVenv(cwd)
	if found {
		ui.Success(fmt.Sprintf("Virtual environment at %s", venv.Dir))
	} else {
		ui.Warn("No virtual environment found ('slipway up' will create one)")
	}

	// Dependency manifest
	project := deps.Project{
		WorkDir:  cwd,
		Python:   venv.Python(),
		Env:      venv.Environ(),
		Manifest: cfg.Manifest,
		Probe:    cfg.Probe,
	}
	pkgs, err := deps.Packages(project.ManifestPath())
	if err != nil {
		ui.Fail(fmt.Sprintf("Dependency manifest %s not found", cfg.Manifest))
		healthy = false
	} else {
		ui.Success(fmt.Sprintf("%s lists %d packages", cfg.Manifest, len(pkgs)))
	}

	// Probe package, only meaningful with a venv to probe in
	if found {
		if project.Probed(context.Background()) {
			ui.Success(fmt.Sprintf("Package %s is installed", cfg.Probe))
		} else {
			ui.Warn(fmt.Sprintf("Package %s is not installed ('slipway up' will install it)", cfg.Probe))
		}
	}

	// Port
	if ports.IsAvailable(cfg.Port) {
		ui.Success(fmt.Sprintf("Port %d is free", cfg.Port))
	} else if pid := ports.PIDOnPort(cfg.Port); pid > 0 {
		ui.Warn(fmt.Sprintf("Port %d is held by PID %d ('slipway up' will kill it)", cfg.Port, pid))
	} else {
		ui.Warn(fmt.Sprintf("Port %d is busy", cfg.Port))
	}

	// System resources
	stats := ui.GetResourceStats()
	ui.Info(fmt.Sprintf("CPU %.1f%%, memory %s / %s (%.1f%%)",
		stats.CPUPercent,
		ui.FormatBytes(stats.MemoryUsed),
		ui.FormatBytes(stats.MemoryTotal),
		stats.MemPercent))

	if !healthy {
		return fmt.Errorf("some checks failed")
	}
	return nil
}
