//go:build windows

package runner

import (
	"os/exec"
	"syscall"
)

// setVerbatim hands cmd.exe the exact command line instead of letting the
// runtime re-escape each argument.
func setVerbatim(cmd *exec.Cmd, interpreter, line string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: interpreter + " /d /s /c " + line,
	}
}
