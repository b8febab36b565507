//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

// setProcessGroup detaches the child into its own process group, the
// closest Windows equivalent of a Unix setpgid.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
