//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// waitStatus converts a finished process state into the status the wrapper
// propagates. Signal deaths follow the shell convention of 128 plus the
// signal number, so `cargo with gdb -- run` dying on SIGINT looks to the
// calling shell exactly like gdb run directly.
func waitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
