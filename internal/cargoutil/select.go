package cargoutil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Candidate is a runnable artifact observed in the message stream.
type Candidate struct {
	Kind string // target kind: bin, example, test, bench, or lib
	Name string
	Path string // absolute path of the executable
}

// Hint narrows selection when a build produces more than one runnable
// artifact. It mirrors cargo's own target-selection flags: Kind comes from
// --bin/--example/--test/--bench/--lib and Name from the flag's value.
type Hint struct {
	Kind string
	Name string
}

// ErrNoCandidates indicates the build finished without producing any
// artifact the wrapper could launch.
var ErrNoCandidates = errors.New("found no runnable artifact candidates")

// AmbiguousError reports that hint filtering still left more than one
// runnable candidate. Its message lists the survivors so the user can pick
// one with a target-selection flag.
type AmbiguousError struct {
	Kind       CmdKind
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	b.WriteString("found more than one runnable artifact candidate:\n\n")
	width := 0
	for _, c := range e.Candidates {
		if w := runewidth.StringWidth(c.Name); w > width {
			width = w
		}
	}
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, "\t- %s  (%s)\n", runewidth.FillRight(c.Name, width), c.Kind)
	}
	flags := "`--example` or `--bin`"
	if e.Kind == KindTest || e.Kind == KindBench {
		flags = "`--test`, `--example`, `--bin` or `--lib`"
	}
	fmt.Fprintf(&b, "\nuse %s to pick the binary to launch", flags)
	return b.String()
}

// BuildFailedError reports that the cargo subcommand did not succeed, either
// because cargo could not be run at all or because it exited non-zero.
type BuildFailedError struct {
	ExitCode int
	Err      error // non-nil when cargo could not be started
}

func (e *BuildFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to run cargo: %v", e.Err)
	}
	return "cargo subcommand failed; try running the original cargo command (without cargo-with)"
}

func (e *BuildFailedError) Unwrap() error { return e.Err }

// Select drains the message stream and resolves it to the single runnable
// artifact for the given subcommand kind and hint. It returns ErrNoCandidates
// or *AmbiguousError when the stream does not pin down exactly one, and
// *BuildFailedError when cargo itself reported failure.
func Select(msgs *MessageReader, kind CmdKind, hint Hint) (Candidate, error) {
	var (
		candidates []Candidate
		seen       = make(map[string]bool)
		failed     bool
	)
	for {
		msg, err := msgs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Candidate{}, fmt.Errorf("read cargo messages: %w", err)
		}
		switch msg.Reason {
		case ReasonBuildFinished:
			if !msg.Success {
				failed = true
			}
		case ReasonCompilerArtifact:
			c, ok := candidateOf(msg, kind, hint)
			if !ok || seen[c.Path] {
				continue
			}
			seen[c.Path] = true
			candidates = append(candidates, c)
		}
	}
	if failed {
		// A failed build outranks every selection outcome: partial
		// artifacts must never be launched.
		return Candidate{}, &BuildFailedError{}
	}
	candidates = hint.filter(candidates)
	switch len(candidates) {
	case 0:
		return Candidate{}, ErrNoCandidates
	case 1:
		return candidates[0], nil
	default:
		return Candidate{}, &AmbiguousError{Kind: kind, Candidates: candidates}
	}
}

// candidateOf projects an artifact message onto a launchable candidate.
// Artifacts without an executable (rlibs, build scripts) never qualify. For
// test and bench subcommands the test-harness profile decides; otherwise the
// target kind must be inherently runnable, with libraries only admitted when
// the hint asks for them explicitly.
func candidateOf(msg Message, kind CmdKind, hint Hint) (Candidate, bool) {
	if msg.Executable == "" {
		return Candidate{}, false
	}
	switch kind {
	case KindTest:
		if !msg.Profile.Test {
			return Candidate{}, false
		}
	case KindBench:
		if !msg.Profile.Test && !msg.Target.hasKind("bench") {
			return Candidate{}, false
		}
	default:
		runnable := msg.Target.hasKind("bin") ||
			msg.Target.hasKind("example") ||
			msg.Target.hasKind("test")
		if !runnable && !(hint.Kind == "lib" && msg.Target.hasKind("lib")) {
			return Candidate{}, false
		}
	}
	return Candidate{
		Kind: msg.Target.primaryKind(),
		Name: msg.Target.Name,
		Path: msg.Executable,
	}, true
}

// filter applies the hint to the accumulated candidates. An exact name match
// takes priority; the kind only discriminates further when several targets
// share the name.
func (h Hint) filter(candidates []Candidate) []Candidate {
	if h.Name != "" {
		candidates = keep(candidates, func(c Candidate) bool { return c.Name == h.Name })
	}
	if h.Kind != "" && len(candidates) > 1 {
		candidates = keep(candidates, func(c Candidate) bool { return c.Kind == h.Kind })
	}
	return candidates
}

func keep(candidates []Candidate, pred func(Candidate) bool) []Candidate {
	kept := candidates[:0:0]
	for _, c := range candidates {
		if pred(c) {
			kept = append(kept, c)
		}
	}
	return kept
}
