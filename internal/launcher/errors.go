package launcher

import "fmt"

// The five terminal failures of the pipeline. Each one aborts the run;
// none is ever converted into a different outcome.

// EnvironmentError means the Python runtime (or the virtual environment
// built on it) could not be provided.
type EnvironmentError struct {
	Err error
}

func (e *EnvironmentError) Error() string {
	return "environment: " + e.Err.Error()
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// ConfigurationError means the dependency manifest is missing, so there
// is nothing to install from.
type ConfigurationError struct {
	Manifest string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: dependency manifest %s not found", e.Manifest)
}

// InstallationError means both the primary and the fallback installer
// failed to satisfy the manifest.
type InstallationError struct {
	Err error
}

func (e *InstallationError) Error() string {
	return "installation: " + e.Err.Error()
}

func (e *InstallationError) Unwrap() error { return e.Err }

// ResourceConflictError means the configured port could not be freed.
type ResourceConflictError struct {
	Port int
	Err  error
}

func (e *ResourceConflictError) Error() string {
	return fmt.Sprintf("resource conflict: %v", e.Err)
}

func (e *ResourceConflictError) Unwrap() error { return e.Err }

// StartupError means the application was not alive after the grace
// period. Tail carries the last log lines for diagnosis.
type StartupError struct {
	LogPath string
	Tail    []string
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup: application is not running after the grace period (see %s)", e.LogPath)
}
