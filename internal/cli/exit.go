package cli

import (
	"errors"
	"fmt"

	"github.com/cbourjau/cargo-with/internal/cargoutil"
	"github.com/cbourjau/cargo-with/internal/withcmd"
)

// Wrapper exit codes. The launched command's own status is propagated
// verbatim and may collide with these; they are only distinct among failures
// of the wrapper itself.
const (
	exitOK            = 0
	exitUsage         = 1
	exitBuildFailed   = 10
	exitNoArtifact    = 11
	exitAmbiguous     = 12
	exitEmptyTemplate = 13
	exitSpawnFailure  = 14
)

// exitStatusError carries the launched command's verbatim exit status through
// the cobra error path. It is never printed.
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.code)
}

// spawnError reports that the resolved command could not be started at all.
type spawnError struct {
	name string
	err  error
}

func (e *spawnError) Error() string {
	return fmt.Sprintf("unable to launch %s: %v", e.name, e.err)
}

func (e *spawnError) Unwrap() error { return e.err }

// codeFor maps a runWith failure to the wrapper's exit status.
func codeFor(err error) int {
	if err == nil {
		return exitOK
	}

	var status *exitStatusError
	if errors.As(err, &status) {
		return status.code
	}
	var spawn *spawnError
	if errors.As(err, &spawn) {
		return exitSpawnFailure
	}
	var buildFailed *cargoutil.BuildFailedError
	if errors.As(err, &buildFailed) {
		return exitBuildFailed
	}
	var ambiguous *cargoutil.AmbiguousError
	if errors.As(err, &ambiguous) {
		return exitAmbiguous
	}
	if errors.Is(err, cargoutil.ErrNoCandidates) {
		return exitNoArtifact
	}
	var syntax *withcmd.SyntaxError
	if errors.Is(err, withcmd.ErrEmptyTemplate) || errors.As(err, &syntax) {
		return exitEmptyTemplate
	}
	return exitUsage
}
