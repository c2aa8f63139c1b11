//go:build windows

package main

import (
	"os"
	"os/exec"
	"strings"
)

func setExecutePermission(path string) error {
	return nil // Windows has no execute-permission bit to set.
}

func signalFromExitError(err error) (int, bool) {
	return 0, false // Windows processes aren't killed by POSIX signals.
}

func signalNumber(sig os.Signal) int {
	return 0
}

func makeShebangCommand(scriptPath string, interpreter []string) *exec.Cmd {
	program := interpreter[0]
	if strings.HasPrefix(program, "/") {
		if translated, outErr := cygpathTranslate(program); outErr == nil {
			program = translated
		}
	}
	args := append(append([]string{}, interpreter[1:]...), scriptPath)
	return exec.Command(program, args...)
}

// cygpathTranslate converts a POSIX-style interpreter path (e.g.
// "/bin/sh") to a Windows path via cygpath, for shebang lines written on
// a Unix host and run under Cygwin/MSYS on Windows.
func cygpathTranslate(path string) (string, *outputError) {
	out, err := exec.Command("cygpath", path).Output()
	if err != nil {
		if code, ok := signalFromExitError(err); ok {
			return "", &outputError{kind: outputSignal, sig: code}
		}
		return "", &outputError{kind: outputIo, err: err}
	}
	translated := string(out)
	for len(translated) > 0 && (translated[len(translated)-1] == '\n' || translated[len(translated)-1] == '\r') {
		translated = translated[:len(translated)-1]
	}
	return translated, nil
}
