//go:build unix

package process

import (
	"os"
	"os/exec"
	"syscall"
	"time"
)

// configureCancel runs the child in its own process group so cancellation
// reaches its descendants: SIGTERM first, SIGKILL after grace.
func configureCancel(c *exec.Cmd, grace time.Duration) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = grace
}

// exitSignal returns the signal that terminated the process, or 0.
func exitSignal(ps *os.ProcessState) int {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return int(ws.Signal())
	}
	return 0
}
