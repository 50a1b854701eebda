//go:build !windows

package runner

import "os/exec"

// setVerbatim is a no-op off Windows: argv is passed to the child unchanged.
func setVerbatim(cmd *exec.Cmd, interpreter, line string) {
	_ = cmd
}
