// Package cargoutil runs cargo build subcommands with JSON messages enabled
// and resolves their output to the one artifact worth launching.
package cargoutil

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CmdKind classifies a cargo subcommand by how its artifacts are selected and
// whether it must be rewritten to a non-executing form.
type CmdKind int

const (
	KindBuild CmdKind = iota
	KindRun
	KindTest
	KindBench
	KindOther
)

// ErrNoSubcommand indicates an invocation with nothing after the first `--`.
var ErrNoSubcommand = errors.New("missing cargo subcommand")

// defaultArgs make cargo emit one JSON message per line and suppress its
// human-oriented progress output, keeping stdout machine-readable.
var defaultArgs = []string{"--message-format=json", "--quiet"}

// kindFlags are cargo's target-selection flags. Each takes the target name as
// its value; --lib stands alone.
var kindFlags = map[string]string{
	"--bin":     "bin",
	"--example": "example",
	"--test":    "test",
	"--bench":   "bench",
}

// valueFlags consume the following argument, so scanning for positionals must
// skip their values. Covers the flags commonly passed to build subcommands.
var valueFlags = map[string]bool{
	"--features":      true,
	"-F":              true,
	"--package":       true,
	"-p":              true,
	"--exclude":       true,
	"--target":        true,
	"--target-dir":    true,
	"--manifest-path": true,
	"--profile":       true,
	"--jobs":          true,
	"-j":              true,
	"--color":         true,
	"--config":        true,
	"-Z":              true,
}

// Cmd is a parsed cargo invocation: the subcommand actually handed to cargo,
// the arguments forwarded to it, and what selection mined out of them.
type Cmd struct {
	kind    CmdKind
	sub     string
	args    []string
	hint    Hint
	filters []string
}

// ParseCommand interprets the cargo arguments the user wrote after the first
// `--`. Subcommands that would themselves execute the artifact are rewritten
// to their build-only equivalents up front: the wrapper owns execution, so
// cargo must only ever compile.
//
//	run   -> build
//	test  -> test --no-run
//	bench -> bench --no-run
//
// Cargo's built-in shorthands (r, b, t) are expanded before rewriting so a
// `cargo with gdb -- r` cannot slip past the rewrite. Positional arguments to
// test and bench are test-name filters meant for the harness binary itself;
// they are pulled out here and later prepended to the launched command's
// arguments.
func ParseCommand(args []string) (*Cmd, error) {
	if len(args) == 0 {
		return nil, ErrNoSubcommand
	}
	c := &Cmd{kind: classify(args[0])}
	switch c.kind {
	case KindBuild, KindRun:
		c.sub = "build"
	case KindTest:
		c.sub = "test"
	case KindBench:
		c.sub = "bench"
	default:
		c.sub = args[0]
	}
	c.scanArgs(args[1:])
	return c, nil
}

func classify(sub string) CmdKind {
	switch sub {
	case "build", "b":
		return KindBuild
	case "run", "r":
		return KindRun
	case "test", "t":
		return KindTest
	case "bench":
		return KindBench
	default:
		return KindOther
	}
}

// scanArgs walks the forwarded arguments once, recording the last
// target-selection flag as the hint and diverting positionals to the filter
// list for test-like subcommands. All flags stay in the forwarded set; cargo
// still needs them to build the right targets.
func (c *Cmd) scanArgs(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			// Everything past cargo's own `--` is an opaque tail for
			// the underlying tool; forward it untouched.
			c.args = append(c.args, args[i:]...)
			return
		case arg == "--lib":
			c.hint = Hint{Kind: "lib"}
			c.args = append(c.args, arg)
		case kindFlags[arg] != "":
			c.hint = Hint{Kind: kindFlags[arg]}
			c.args = append(c.args, arg)
			if i+1 < len(args) {
				i++
				c.hint.Name = args[i]
				c.args = append(c.args, args[i])
			}
		case strings.HasPrefix(arg, "--") && strings.Contains(arg, "="):
			if name, value, _ := strings.Cut(arg, "="); kindFlags[name] != "" {
				c.hint = Hint{Kind: kindFlags[name], Name: value}
			}
			c.args = append(c.args, arg)
		case strings.HasPrefix(arg, "-") && arg != "-":
			c.args = append(c.args, arg)
			if valueFlags[arg] && i+1 < len(args) {
				i++
				c.args = append(c.args, args[i])
			}
		case c.kind == KindTest || c.kind == KindBench:
			c.filters = append(c.filters, arg)
		default:
			c.args = append(c.args, arg)
		}
	}
}

// Kind reports how artifacts of this subcommand are selected.
func (c *Cmd) Kind() CmdKind { return c.kind }

// Hint returns the target-selection hint mined from the arguments.
func (c *Cmd) Hint() Hint { return c.hint }

// Filters returns the test-name filters that belong to the harness binary
// rather than to cargo.
func (c *Cmd) Filters() []string { return c.filters }

// CommandLine assembles the full argument vector handed to the cargo binary,
// with extra arguments (from configuration) inserted before the user's own.
func (c *Cmd) CommandLine(extra []string) []string {
	line := append([]string{c.sub}, defaultArgs...)
	if c.kind == KindTest || c.kind == KindBench {
		line = append(line, "--no-run")
	}
	line = append(line, extra...)
	line = append(line, c.args...)
	return line
}

// Build is a running cargo subprocess whose message stream is being consumed.
type Build struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	msgs   *MessageReader
}

// Start launches the cargo subcommand. Stderr goes to the given writer
// unchanged so compiler diagnostics reach the user as the build streams;
// stdout is claimed for the message reader.
func (c *Cmd) Start(ctx context.Context, extra []string, stderr io.Writer) (*Build, error) {
	cmd := exec.CommandContext(ctx, "cargo", c.CommandLine(extra)...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &BuildFailedError{Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &BuildFailedError{Err: err}
	}
	return &Build{cmd: cmd, stdout: stdout, msgs: NewMessageReader(stdout)}, nil
}

// Messages returns the reader over the build's JSON output.
func (b *Build) Messages() *MessageReader { return b.msgs }

// Wait reaps the cargo process. A non-zero exit comes back as
// *BuildFailedError carrying cargo's status.
func (b *Build) Wait() error {
	// Unblock cargo in case selection stopped reading early.
	io.Copy(io.Discard, b.stdout)
	err := b.cmd.Wait()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &BuildFailedError{ExitCode: exitErr.ExitCode()}
	}
	return &BuildFailedError{Err: err}
}
