//go:build windows

package cli

import (
	"os"
)

func waitStatus(state *os.ProcessState) int {
	return state.ExitCode()
}
