package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/deps"
	"github.com/slipway-dev/slipway/internal/envfile"
	"github.com/slipway-dev/slipway/internal/ports"
	"github.com/slipway-dev/slipway/internal/pyenv"
	"github.com/slipway-dev/slipway/internal/ui"
)

// State tracks pipeline progress. Transitions are one-way: the first
// failing step moves straight to StateFailed and the run is over.
type State int

const (
	StateInit State = iota
	StateRuntimeChecked
	StateEnvironmentReady
	StateDependenciesReady
	StatePortFree
	StateRunning
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateRuntimeChecked:
		return "RuntimeChecked"
	case StateEnvironmentReady:
		return "EnvironmentReady"
	case StateDependenciesReady:
		return "DependenciesReady"
	case StatePortFree:
		return "PortFree"
	case StateRunning:
		return "Running"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// killWait is the pause between killing a port owner and re-checking.
const killWait = 1 * time.Second

// Options control a single launch.
type Options struct {
	WorkDir     string
	OpenBrowser bool
}

// Launcher drives the launch pipeline for one project.
type Launcher struct {
	cfg   config.Config
	opts  Options
	state State

	interp pyenv.Interpreter
	venv   pyenv.Venv
	app    *App
}

// New creates a launcher for the given configuration.
func New(cfg config.Config, opts Options) *Launcher {
	return &Launcher{cfg: cfg, opts: opts, state: StateInit}
}

// State returns the current pipeline state.
func (l *Launcher) State() State { return l.state }

// App returns the launched application, nil before StateRunning.
func (l *Launcher) App() *App { return l.app }

// Up runs the pipeline in fixed order and stops at the first failure.
// Every returned error is one of the types in errors.go.
func (l *Launcher) Up(ctx context.Context) error {
	steps := []struct {
		name string
		next State
		run  func(context.Context) error
	}{
		{"Checking Python runtime", StateRuntimeChecked, l.checkRuntime},
		{"Preparing virtual environment", StateEnvironmentReady, l.ensureVenv},
		{"Checking dependencies", StateDependenciesReady, l.ensureDeps},
		{fmt.Sprintf("Freeing port %d", l.cfg.Port), StatePortFree, l.freePort},
		{"Starting application", StateRunning, l.start},
	}

	for i, step := range steps {
		ui.Step(i+1, len(steps), step.name)
		if err := step.run(ctx); err != nil {
			l.state = StateFailed
			return err
		}
		l.state = step.next
	}

	return nil
}

func (l *Launcher) checkRuntime(ctx context.Context) error {
	interp, err := pyenv.FindInterpreter()
	if err != nil {
		return &EnvironmentError{Err: err}
	}
	l.interp = interp

	ui.Success(fmt.Sprintf("%s (%s)", interp.Version, interp.Path))
	return nil
}

func (l *Launcher) ensureVenv(ctx context.Context) error {
	venv, err := pyenv.EnsureVenv(l.opts.WorkDir, l.interp)
	if err != nil {
		return &EnvironmentError{Err: err}
	}
	l.venv = venv

	if venv.Created {
		ui.Success("Created virtual environment at " + venv.Dir)
	} else {
		ui.Success("Using virtual environment at " + venv.Dir)
	}
	return nil
}

func (l *Launcher) ensureDeps(ctx context.Context) error {
	project := deps.Project{
		WorkDir:  l.opts.WorkDir,
		Python:   l.venv.Python(),
		Env:      l.venv.Environ(),
		Manifest: l.cfg.Manifest,
		Probe:    l.cfg.Probe,
	}

	if _, err := os.Stat(project.ManifestPath()); err != nil {
		return &ConfigurationError{Manifest: project.ManifestPath()}
	}

	if project.Probed(ctx) {
		ui.Success(fmt.Sprintf("Dependencies already installed (%s present)", l.cfg.Probe))
		return nil
	}

	err := ui.RunPhase("Installing dependencies from "+l.cfg.Manifest, func() error {
		return project.Install(ctx)
	})
	if err != nil {
		return &InstallationError{Err: err}
	}

	ui.Success("Dependencies installed")
	return nil
}

func (l *Launcher) freePort(ctx context.Context) error {
	killed, err := ports.Free(l.cfg.Port, killWait)
	if err != nil {
		return &ResourceConflictError{Port: l.cfg.Port, Err: err}
	}

	if killed {
		ui.Info(fmt.Sprintf("Killed the process holding port %d", l.cfg.Port))
	}
	ui.Success(fmt.Sprintf("Port %d is free", l.cfg.Port))
	return nil
}

func (l *Launcher) start(ctx context.Context) error {
	env := l.venv.Environ()

	// Project-local .env values ride along, shell wins on conflict.
	if vars, err := envfile.Read(filepath.Join(l.opts.WorkDir, ".env")); err == nil {
		if len(vars) > 0 {
			ui.Info(fmt.Sprintf("Loaded %d variable(s) from .env", len(vars)))
		}
		env = envfile.Merge(env, vars)
	} else {
		log.Warn("could not read .env", "error", err)
	}

	command := ports.WithPort(l.cfg.Command, l.cfg.Port)
	log.Debug("launching", "command", command)

	app, err := StartApp(StartOptions{
		WorkDir: l.opts.WorkDir,
		Command: command,
		Env:     env,
		LogPath: filepath.Join(l.opts.WorkDir, l.cfg.LogFile),
	})
	if err != nil {
		return &StartupError{LogPath: filepath.Join(l.opts.WorkDir, l.cfg.LogFile)}
	}
	l.app = app

	grace := time.Duration(l.cfg.GraceSeconds) * time.Second
	err = ui.RunPhase(fmt.Sprintf("Waiting %s for the application to come up", grace), func() error {
		return app.WaitReady(grace)
	})
	if err != nil {
		tail := TailLog(app.LogPath, 20)
		ui.LogTail(app.LogPath, tail)
		return &StartupError{LogPath: app.LogPath, Tail: tail}
	}

	l.printSummary()

	if l.opts.OpenBrowser {
		OpenBrowser(l.LocalURL())
	}
	return nil
}

// LocalURL returns the loopback address the application serves on.
func (l *Launcher) LocalURL() string {
	return fmt.Sprintf("http://localhost:%d", l.cfg.Port)
}

// NetworkURL returns the LAN-reachable address, "" when the primary
// interface cannot be determined.
func (l *Launcher) NetworkURL() string {
	ip := ports.LanIP()
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", ip, l.cfg.Port)
}

func (l *Launcher) printSummary() {
	name := l.cfg.Name
	if name == "" {
		name = filepath.Base(l.opts.WorkDir)
	}

	lines := []string{
		fmt.Sprintf("%s is running", name),
		"",
		"Local:   " + ui.URL(l.LocalURL()),
	}
	if nw := l.NetworkURL(); nw != "" {
		lines = append(lines, "Network: "+ui.URL(nw))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("PID: %d", l.app.PID()),
		"Log: "+l.app.LogPath,
	)

	fmt.Println()
	fmt.Println(ui.Box(lines))
}
