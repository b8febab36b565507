package pyenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Interpreter describes the Python runtime resolved on the host.
type Interpreter struct {
	Path    string
	Version string
}

// Interpreter names in resolution order.
var interpreterNames = []string{"python3", "python"}

// Conventional virtual environment directory names, in lookup order.
var venvNames = []string{"venv", ".venv"}

// FindInterpreter resolves the Python interpreter on PATH and records its
// version string for display.
func FindInterpreter() (Interpreter, error) {
	for _, name := range interpreterNames {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}

		interp := Interpreter{Path: path}

		// Old interpreters print the version to stderr, modern ones to
		// stdout, so capture both.
		out, err := exec.Command(path, "--version").CombinedOutput()
		if err == nil {
			interp.Version = strings.TrimSpace(string(out))
		}

		return interp, nil
	}

	return Interpreter{}, fmt.Errorf("python is not installed or not on PATH (tried %s)",
		strings.Join(interpreterNames, ", "))
}

// Venv describes a project virtual environment.
type Venv struct {
	Dir     string
	Created bool
}

// BinDir returns the directory holding the venv's executables.
func (v Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts")
	}
	return filepath.Join(v.Dir, "bin")
}

// Python returns the path to the interpreter inside the venv.
func (v Venv) Python() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.BinDir(), "python.exe")
	}
	return filepath.Join(v.BinDir(), "python")
}

// FindVenv looks for an existing virtual environment under one of the
// conventional names without creating anything.
func FindVenv(workdir string) (Venv, bool) {
	for _, name := range venvNames {
		v := Venv{Dir: filepath.Join(workdir, name)}
		if isVenv(v) {
			return v, true
		}
	}
	return Venv{}, false
}

// EnsureVenv finds an existing virtual environment under one of the
// conventional names, creating ./venv with the given interpreter when
// neither exists.
func EnsureVenv(workdir string, interp Interpreter) (Venv, error) {
	if v, ok := FindVenv(workdir); ok {
		return v, nil
	}

	v := Venv{Dir: filepath.Join(workdir, "venv"), Created: true}

	cmd := exec.Command(interp.Path, "-m", "venv", v.Dir)
	cmd.Dir = workdir
	if out, err := cmd.CombinedOutput(); err != nil {
		return Venv{}, fmt.Errorf("failed to create virtual environment: %w: %s",
			err, strings.TrimSpace(string(out)))
	}

	return v, nil
}

// isVenv reports whether dir looks like a usable virtual environment.
// An empty or half-created directory does not count.
func isVenv(v Venv) bool {
	info, err := os.Stat(v.Python())
	return err == nil && !info.IsDir()
}

// Environ returns the process environment with the venv activated: its
// bin directory first on PATH and VIRTUAL_ENV set. This mirrors what the
// venv's activate script does, without needing a shell to source it.
func (v Venv) Environ() []string {
	env := os.Environ()
	out := make([]string, 0, len(env)+1)

	for _, kv := range env {
		// A stale PYTHONHOME breaks the venv interpreter; activate
		// scripts unset it too.
		if strings.HasPrefix(kv, "PYTHONHOME=") {
			continue
		}
		if strings.HasPrefix(kv, "PATH=") {
			kv = "PATH=" + v.BinDir() + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
		}
		out = append(out, kv)
	}

	return append(out, "VIRTUAL_ENV="+v.Dir)
}
