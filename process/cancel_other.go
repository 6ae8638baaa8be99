//go:build !unix

package process

import (
	"os"
	"os/exec"
	"time"
)

func configureCancel(c *exec.Cmd, grace time.Duration) {
	c.WaitDelay = grace
}

func exitSignal(*os.ProcessState) int { return 0 }
