//go:build windows

package logger

import (
	"golang.org/x/sys/windows"
)

// isTerminal checks if the file descriptor is a console on Windows
func isTerminal(fd uintptr) bool {
	var mode uint32
	return windows.GetConsoleMode(windows.Handle(fd), &mode) == nil
}
