package main

import "testing"

func TestParseArgs_SupportsFlagsAndCommandWithoutDashDash(t *testing.T) {
	opts, cmd, err := parseArgs([]string{
		"--messages", "two-bins",
		"--cargo-exit", "101",
		"bash", "-lc", "echo hi",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if opts.scenario != "two-bins" {
		t.Fatalf("expected scenario=two-bins, got %q", opts.scenario)
	}
	if opts.cargoExit != 101 {
		t.Fatalf("expected cargoExit=101, got %d", opts.cargoExit)
	}
	if len(cmd) != 3 || cmd[0] != "bash" || cmd[1] != "-lc" || cmd[2] != "echo hi" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}

func TestParseArgs_SupportsDashDashDelimiter(t *testing.T) {
	opts, cmd, err := parseArgs([]string{"--keep", "--", "bash", "-lc", "echo hi"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !opts.keepCrate {
		t.Fatalf("expected keepCrate true")
	}
	if len(cmd) != 3 || cmd[0] != "bash" || cmd[1] != "-lc" || cmd[2] != "echo hi" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}

func TestParseArgs_RequiresCommand(t *testing.T) {
	_, _, err := parseArgs([]string{"--keep"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseArgs_RejectsUnknownScenario(t *testing.T) {
	if _, _, err := parseArgs([]string{"--messages", "nope", "bash", "-lc", "echo"}); err == nil {
		t.Fatalf("expected error for unknown scenario")
	}
}

func TestScenarios_AllDefined(t *testing.T) {
	for _, name := range []string{"single-bin", "two-bins", "bin-and-example", "test-bin", "build-failed", "no-artifacts"} {
		if scenarios[name] == "" {
			t.Fatalf("scenario %q missing", name)
		}
	}
}
