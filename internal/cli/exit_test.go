package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cbourjau/cargo-with/internal/cargoutil"
	"github.com/cbourjau/cargo-with/internal/withcmd"
)

func TestCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "wrapped command status", err: &exitStatusError{code: 42}, want: 42},
		{name: "signal status", err: &exitStatusError{code: 130}, want: 130},
		{name: "spawn failure", err: &spawnError{name: "gdb", err: errors.New("not found")}, want: exitSpawnFailure},
		{name: "build failed", err: &cargoutil.BuildFailedError{ExitCode: 101}, want: exitBuildFailed},
		{name: "wrapped build failed", err: fmt.Errorf("context: %w", &cargoutil.BuildFailedError{}), want: exitBuildFailed},
		{name: "no candidates", err: cargoutil.ErrNoCandidates, want: exitNoArtifact},
		{name: "ambiguous", err: &cargoutil.AmbiguousError{}, want: exitAmbiguous},
		{name: "empty template", err: withcmd.ErrEmptyTemplate, want: exitEmptyTemplate},
		{name: "template syntax", err: &withcmd.SyntaxError{Raw: "x '", Err: errors.New("unterminated")}, want: exitEmptyTemplate},
		{name: "anything else", err: errors.New("usage"), want: exitUsage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := codeFor(tc.err); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWrapperCodesAreDistinct(t *testing.T) {
	codes := []int{exitUsage, exitBuildFailed, exitNoArtifact, exitAmbiguous, exitEmptyTemplate, exitSpawnFailure}
	seen := make(map[int]bool)
	for _, code := range codes {
		if seen[code] {
			t.Fatalf("exit code %d assigned twice", code)
		}
		seen[code] = true
	}
}
