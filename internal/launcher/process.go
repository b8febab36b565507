package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// App is the launched application process. Once started it is detached
// from the launcher; the only supervision is the one-time liveness check
// and a background reaper that records the exit.
type App struct {
	LogPath string

	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

// StartOptions describe how to launch the application.
type StartOptions struct {
	WorkDir string
	Command string
	Env     []string
	LogPath string
}

// StartApp launches the command in its own process group with combined
// output redirected to the log file. The log is truncated on every run.
func StartApp(opts StartOptions) (*App, error) {
	logf, err := os.Create(opts.LogPath)
	if err != nil {
		return nil, fmt.Errorf("cannot create log file: %w", err)
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", opts.Command)
	} else {
		cmd = exec.Command("sh", "-c", opts.Command)
	}
	cmd.Dir = opts.WorkDir
	cmd.Env = opts.Env
	cmd.Stdout = logf
	cmd.Stderr = logf
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		logf.Close()
		return nil, fmt.Errorf("cannot start application: %w", err)
	}

	app := &App{LogPath: opts.LogPath, cmd: cmd, done: make(chan struct{})}

	// Reap the child so an early exit is observable and never leaves a
	// zombie behind.
	go func() {
		app.waitErr = cmd.Wait()
		logf.Close()
		close(app.done)
	}()

	return app, nil
}

// PID returns the application's process id.
func (a *App) PID() int {
	return a.cmd.Process.Pid
}

// Alive reports whether the application process is still running.
func (a *App) Alive() bool {
	select {
	case <-a.done:
		return false
	default:
	}

	ok, err := process.PidExists(int32(a.PID()))
	if err != nil {
		// The reaper has not fired and the probe failed; assume alive.
		return true
	}
	return ok
}

// WaitReady blocks for the grace period, returning early with an error
// when the application exits before the period is over.
func (a *App) WaitReady(grace time.Duration) error {
	select {
	case <-a.done:
		if a.waitErr != nil {
			return fmt.Errorf("application exited during startup: %w", a.waitErr)
		}
		return errors.New("application exited during startup")
	case <-time.After(grace):
	}

	if !a.Alive() {
		return errors.New("application is not running after the grace period")
	}
	return nil
}

// TailLog returns the last n lines of the file at path. A missing or
// empty log yields nil.
func TailLog(path string, n int) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
