// Command cargo-with builds a cargo target and hands the resulting binary to
// another program: a debugger, a profiler, or anything else that takes the
// artifact path on its command line.
//
// Install it on PATH and cargo picks it up as a subcommand:
//
//	cargo with gdb -- run
//	cargo with "rust-lldb {bin} {args}" -- test my_filter
package main

import (
	"os"

	"github.com/cbourjau/cargo-with/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
