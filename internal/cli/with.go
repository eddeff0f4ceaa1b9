package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/cbourjau/cargo-with/internal/cargoutil"
	"github.com/cbourjau/cargo-with/internal/withcmd"
)

type withOptions struct {
	verbose bool
	dryRun  bool
}

// runWith drives the whole pipeline: split the invocation, rewrite and run
// the cargo subcommand, select the one artifact it produced, expand the
// command template, and launch the result with inherited streams.
func runWith(cmd *cobra.Command, opts *withOptions, args []string) error {
	rawCommand, cargoArgs, residual, err := splitInvocation(args, cmd.Flags().ArgsLenAtDash())
	if err != nil {
		return err
	}

	cargoCmd, err := cargoutil.ParseCommand(cargoArgs)
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	template, err := withcmd.Parse(resolveAlias(cfg, rawCommand))
	if err != nil {
		return err
	}

	// Test-name filters mined from the cargo positionals run ahead of the
	// arguments the user wrote after the second `--`.
	residual = append(cargoCmd.Filters(), residual...)

	stderr := cmd.ErrOrStderr()
	echo := commandEcho{w: stderr, enabled: opts.verbose}
	echo.print("cargo", cargoCmd.CommandLine(cfg.Cargo.ExtraArgs))

	build, err := cargoCmd.Start(cmd.Context(), cfg.Cargo.ExtraArgs, stderr)
	if err != nil {
		return err
	}
	selected, selErr := cargoutil.Select(build.Messages(), cargoCmd.Kind(), cargoCmd.Hint())
	if err := build.Wait(); err != nil {
		// Cargo's own failure outranks whatever selection concluded
		// from the truncated stream.
		return err
	}
	if selErr != nil {
		return selErr
	}

	argv := template.Expand(selected.Path, residual)
	echo.print(argv[0], argv[1:])

	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), shellquote.Join(argv...))
		return nil
	}

	return launch(argv)
}

// splitInvocation separates the raw positionals into the with command, the
// cargo invocation, and the residual arguments for the launched command.
// dash is the index of the first `--` as reported by pflag; a second `--`
// survives inside the positionals and is split off here.
func splitInvocation(args []string, dash int) (withCommand string, cargoArgs, residual []string, err error) {
	if dash < 0 {
		return "", nil, nil, errors.New("missing `--` before the cargo subcommand; see --help for usage")
	}
	head := args[:dash]
	tail := args[dash:]
	switch len(head) {
	case 0:
		return "", nil, nil, errors.New("missing command before `--`")
	case 1:
	default:
		return "", nil, nil, fmt.Errorf("expected one command before `--`, got %d arguments (quote the command)", len(head))
	}
	cargoArgs = tail
	for i, arg := range tail {
		if arg == "--" {
			cargoArgs = tail[:i]
			residual = tail[i+1:]
			break
		}
	}
	return head[0], cargoArgs, residual, nil
}

// launch replaces the wrapper's role with the resolved command: inherited
// stdin, stdout, and stderr, and the command's exit carried back verbatim.
func launch(argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return &spawnError{name: argv[0], err: err}
	}
	proc := exec.Command(path, argv[1:]...)
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr
	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &exitStatusError{code: waitStatus(exitErr.ProcessState)}
		}
		return &spawnError{name: argv[0], err: err}
	}
	return nil
}

// commandEcho prints the command lines the wrapper is about to run, dimmed
// when stderr is a terminal so they read as annotation rather than output.
type commandEcho struct {
	w       io.Writer
	enabled bool
}

func (e commandEcho) print(name string, args []string) {
	if !e.enabled {
		return
	}
	line := fmt.Sprintf("running `%s`", shellquote.Join(append([]string{name}, args...)...))
	if writerIsTerminal(e.w) {
		line = colorCommand(line)
	}
	fmt.Fprintln(e.w, line)
}
