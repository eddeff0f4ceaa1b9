// Argument parsing for the `withcmdtest` harness.
//
// Supported flags:
//   - `--messages <scenario>` (which message fixture the cargo stub emits)
//   - `--cargo-exit <n>` (exit status of the cargo stub)
//   - `--config <toml>` (write the given .cargo-with.toml into the crate)
//   - `--no-manifest` (omit Cargo.toml, for discovery-failure tests)
//   - `--keep` (preserve the temp crate for debugging)
//   - `-h/--help`
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

type options struct {
	scenario   string
	cargoExit  int
	configTOML string
	noManifest bool
	keepCrate  bool
	help       bool
}

func parseArgs(args []string) (options, []string, error) {
	var opts options

	fs := flag.NewFlagSet("withcmdtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.scenario, "messages", "single-bin", "")
	fs.IntVar(&opts.cargoExit, "cargo-exit", 0, "")
	fs.StringVar(&opts.configTOML, "config", "", "")
	fs.BoolVar(&opts.noManifest, "no-manifest", false, "")
	fs.BoolVar(&opts.keepCrate, "keep", false, "")

	fs.BoolVar(&opts.help, "help", false, "")
	fs.BoolVar(&opts.help, "h", false, "")

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	if opts.help {
		return opts, nil, nil
	}

	if _, ok := scenarios[opts.scenario]; !ok {
		return options{}, nil, fmt.Errorf("unknown messages scenario %q", opts.scenario)
	}
	if opts.cargoExit < 0 {
		return options{}, nil, fmt.Errorf("cargo exit status must not be negative: %d", opts.cargoExit)
	}

	cmd := fs.Args()
	if len(cmd) == 0 {
		return options{}, nil, errors.New("missing command")
	}

	return opts, cmd, nil
}
