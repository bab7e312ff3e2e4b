//go:build !linux && !darwin

package logger

import "os"

// Non-Unix platforms (including Windows and WASM) report no terminal:
// TerminalWidth returns 0 and IsTerminal returns false.
func TerminalWidth(fd *os.File) int {
	return 0
}

func IsTerminal(fd *os.File) bool {
	return false
}
