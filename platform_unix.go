//go:build !windows

package main

import (
	"os"
	"os/exec"
	"syscall"
)

func setExecutePermission(path string) error {
	return os.Chmod(path, 0o755)
}

// signalFromExitError reports the signal that killed a child process, if
// any, so the runner can map it to a Signal runtime error.
func signalFromExitError(err error) (int, bool) {
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 0, false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return 0, false
	}
	return int(status.Signal()), true
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return 0
}

// makeShebangCommand builds the command that runs a shebang script,
// splitting the interpreter line (already argv-split by the caller) and
// appending the script path as its final argument.
func makeShebangCommand(scriptPath string, interpreter []string) *exec.Cmd {
	args := append(append([]string{}, interpreter[1:]...), scriptPath)
	return exec.Command(interpreter[0], args...)
}
