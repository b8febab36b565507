//go:build unix

package launcher

import (
	"os/exec"
	"syscall"
)

// setProcessGroup gives the child its own process group, so the app
// outlives us and a later `slipway down` can kill the whole tree.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
