//go:build darwin

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

func TerminalWidth(fd *os.File) int {
	ws, err := unix.IoctlGetWinsize(int(fd.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}

func IsTerminal(fd *os.File) bool {
	_, err := unix.IoctlGetTermios(int(fd.Fd()), unix.TIOCGETA)
	return err == nil
}
