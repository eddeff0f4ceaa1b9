package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cbourjau/cargo-with/internal/version"
)

var (
	colorError   = color.New(color.FgRed, color.Bold).SprintFunc()
	colorCommand = color.New(color.FgHiBlack).SprintFunc()
)

// Execute runs the wrapper and returns the process exit status, including the
// launched command's own status when it ran and failed.
func Execute() int {
	cmd := newRootCommand()
	cmd.SetArgs(stripPluginArg(os.Args[1:]))
	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), err)
		return codeFor(err)
	}
	return exitOK
}

// stripPluginArg drops the literal "with" cargo inserts as the first argument
// when the binary runs as a cargo subcommand (`cargo with ...`) instead of
// being invoked directly.
func stripPluginArg(args []string) []string {
	if len(args) > 0 && args[0] == "with" {
		return args[1:]
	}
	return args
}

func newRootCommand() *cobra.Command {
	opts := &withOptions{}
	cmd := &cobra.Command{
		Use:     "cargo-with <command> -- <cargo-subcommand> [cargo-args...] [-- <args>...]",
		Short:   "Run cargo build artifacts through another program, such as a debugger",
		Version: version.String(),
		Example: `  cargo with gdb -- run
  cargo with "rust-lldb {bin} {args}" -- test some_filter
  cargo with "valgrind --leak-check=full" -- run --release -- --config prod.toml`,
		// The first positional is the user's command, not a subcommand.
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "echo the cargo and launch command lines")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "resolve the command without launching it")

	cmd.AddCommand(newVersionCommand())

	return cmd
}

// printError renders a failure on stderr. Exit-status errors stay silent: the
// launched command already reported itself, and repeating its status would
// only add noise between it and the shell.
func printError(w io.Writer, err error) {
	var status *exitStatusError
	if errors.As(err, &status) {
		return
	}
	prefix := "error:"
	if writerIsTerminal(w) {
		prefix = colorError(prefix)
	}
	fmt.Fprintf(w, "%s %v\n", prefix, err)
}
