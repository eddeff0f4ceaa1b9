// cargostub is a hermetic stand-in for the `cargo` CLI used by transcript
// tests.
//
// Supported behavior:
//   - build/test/bench (and anything unrecognized) emit the JSON message
//     lines found in the messages file and exit with the configured status
//   - `run` fails loudly: the wrapper must rewrite run to build before cargo
//     ever sees it, so reaching the stub with `run` is a wrapper bug
//   - `--version` prints a fixed version string
//
// State is read from `CARGO_STUB_MESSAGES` and `CARGO_STUB_EXIT` (defaults
// are `.cargo-messages` and `.cargo-exit` in `$PWD`). Every invocation is
// appended to `.cargo-invocations` so transcripts can assert the exact
// command line the wrapper produced.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	messagesFile := getenvDefault("CARGO_STUB_MESSAGES", filepath.Join(mustGetwd(), ".cargo-messages"))
	exitFile := getenvDefault("CARGO_STUB_EXIT", filepath.Join(mustGetwd(), ".cargo-exit"))

	appendLine(filepath.Join(mustGetwd(), ".cargo-invocations"), "cargo "+strings.Join(os.Args[1:], " "))

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "cargo stub: missing subcommand")
		os.Exit(1)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "--version", "-V":
		fmt.Fprintln(os.Stdout, "cargo 1.99.0 (stub)")
		os.Exit(0)
	case "run", "r":
		fmt.Fprintln(os.Stderr, "cargo stub: `run` reached cargo; the wrapper must rewrite it to `build`")
		os.Exit(1)
	}

	if !contains(args, "--message-format=json") {
		fmt.Fprintf(os.Stderr, "cargo stub: %s invoked without --message-format=json\n", sub)
		os.Exit(1)
	}

	emitMessages(messagesFile)
	os.Exit(exitStatus(exitFile))
}

func contains(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}
