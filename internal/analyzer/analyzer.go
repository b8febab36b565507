package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/deps"
)

// Analysis describes what was detected about a project directory.
type Analysis struct {
	Name     string
	Entry    string // application entry file, relative to the project
	Manifest string
	Probe    string
}

// Entry files checked in priority order.
var entryCandidates = []string{"app.py", "streamlit_app.py", "main.py", "ui.py"}

// Web frameworks recognized in the manifest; the first hit becomes the
// key-package probe.
var frameworkPackages = []string{"streamlit", "gradio", "dash", "panel", "flask", "fastapi"}

// Analyze inspects workdir and returns launcher settings for it.
func Analyze(workdir string) (Analysis, error) {
	a := Analysis{
		Name:     filepath.Base(workdir),
		Manifest: config.DefaultManifest,
		Probe:    config.DefaultProbe,
	}

	for _, name := range entryCandidates {
		if _, err := os.Stat(filepath.Join(workdir, name)); err == nil {
			a.Entry = name
			break
		}
	}
	if a.Entry == "" {
		return a, fmt.Errorf("no application entry file found in %s (tried %s)",
			workdir, strings.Join(entryCandidates, ", "))
	}

	// The manifest tells us which framework actually runs the app.
	if pkgs, err := deps.Packages(filepath.Join(workdir, a.Manifest)); err == nil {
		for _, pkg := range pkgs {
			if framework := matchFramework(pkg); framework != "" {
				a.Probe = framework
				break
			}
		}
	}

	return a, nil
}

func matchFramework(pkg string) string {
	lower := strings.ToLower(pkg)
	for _, framework := range frameworkPackages {
		if lower == framework {
			return framework
		}
	}
	return ""
}

// Command returns the run command for the detected framework and entry.
func (a Analysis) Command() string {
	switch a.Probe {
	case "flask":
		return "flask --app " + a.Entry + " run"
	case "fastapi":
		return "uvicorn " + strings.TrimSuffix(a.Entry, ".py") + ":app"
	default:
		return "streamlit run " + a.Entry
	}
}

// Config converts the analysis into a launcher configuration.
func (a Analysis) Config() config.Config {
	cfg := config.Default()
	cfg.Name = a.Name
	cfg.Command = a.Command()
	cfg.Probe = a.Probe
	return cfg
}
