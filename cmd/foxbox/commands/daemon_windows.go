//go:build windows

package commands

import "errors"

// Windows has no fork/setsid; run with --foreground instead.
func startDaemon() error {
	return errors.New("daemon mode is not supported on Windows, run with --foreground")
}
