package deps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Sentinel errors for the two terminal dependency failures. The launcher
// maps these onto its error taxonomy.
var (
	ErrManifestMissing = errors.New("dependency manifest not found")
	ErrInstallFailed   = errors.New("dependency installation failed")
)

// installTimeout bounds a single installer invocation.
const installTimeout = 10 * time.Minute

// Project carries everything the dependency step needs to know.
type Project struct {
	WorkDir  string
	Python   string   // interpreter inside the venv
	Env      []string // activated environment
	Manifest string   // manifest filename, relative to WorkDir
	Probe    string   // key package used as the "installed" proxy
}

// ManifestPath returns the absolute manifest location.
func (p Project) ManifestPath() string {
	return filepath.Join(p.WorkDir, p.Manifest)
}

// Probed reports whether the key package is already installed in the
// venv. It stands proxy for the whole manifest being satisfied.
func (p Project) Probed(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, p.Python, "-m", "pip", "show", p.Probe)
	cmd.Dir = p.WorkDir
	cmd.Env = p.Env
	return cmd.Run() == nil
}

// Install installs the manifest with pip, retrying once with uv when pip
// reports a non-zero exit. A missing manifest fails before any installer
// runs.
func (p Project) Install(ctx context.Context) error {
	if _, err := os.Stat(p.ManifestPath()); err != nil {
		return fmt.Errorf("%w: %s", ErrManifestMissing, p.ManifestPath())
	}

	ctx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	pipErr := p.runInstaller(ctx, p.Python, "-m", "pip", "install", "-r", p.Manifest)
	if pipErr == nil {
		return nil
	}
	log.Warn("pip install failed, retrying with uv", "error", pipErr)

	uv, err := exec.LookPath("uv")
	if err != nil {
		return fmt.Errorf("%w: pip failed (%v) and uv is not installed", ErrInstallFailed, pipErr)
	}

	if err := p.runInstaller(ctx, uv, "pip", "install", "-r", p.Manifest, "--python", p.Python); err != nil {
		return fmt.Errorf("%w: pip failed (%v), uv failed (%v)", ErrInstallFailed, pipErr, err)
	}

	return nil
}

// runInstaller runs one installer command, capturing its output for
// diagnostics instead of spilling it onto the progress display.
func (p Project) runInstaller(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = p.WorkDir
	cmd.Env = p.Env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.Debug("running installer", "command", name+" "+strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, lastLine(out.String()))
	}
	return nil
}

// lastLine returns the final non-empty output line, usually the actual
// installer error.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// Packages parses the manifest and returns the declared package names,
// stripped of version pins, extras and environment markers.
func Packages(manifestPath string) ([]string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, manifestPath)
		}
		return nil, err
	}

	var pkgs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		name := line
		for _, sep := range []string{"==", ">=", "<=", "~=", "!=", ">", "<", ";", "[", " "} {
			if idx := strings.Index(name, sep); idx > 0 {
				name = name[:idx]
			}
		}
		name = strings.TrimSpace(name)
		if name != "" {
			pkgs = append(pkgs, name)
		}
	}

	return pkgs, nil
}
