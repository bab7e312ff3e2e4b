//go:build linux

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

// TerminalWidth returns the width of fd's terminal, or 0 if fd isn't a
// terminal. PrintMessages does not consult it; it always prints the
// whole offending source line.
func TerminalWidth(fd *os.File) int {
	ws, err := unix.IoctlGetWinsize(int(fd.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}

func IsTerminal(fd *os.File) bool {
	_, err := unix.IoctlGetTermios(int(fd.Fd()), unix.TCGETS)
	return err == nil
}
