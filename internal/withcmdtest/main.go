// withcmdtest is a small internal harness for transcript tests.
//
// It provisions a disposable cargo crate under
// `/tmp/cargo-with-transcripts/tmpcrate-<id>`, installs a hermetic `cargo`
// stub seeded with a JSON message scenario, then runs an arbitrary command
// inside the crate and returns the command's exit code.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	tool, err := newToolFromExecutable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(tool.runCLI(context.Background(), os.Args[1:]))
}
