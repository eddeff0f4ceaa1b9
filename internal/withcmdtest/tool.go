// Implementation of the `withcmdtest` harness.
//
// Key behaviors:
//   - Creates `/tmp/cargo-with-transcripts/tmpcrate-<id>` and symlinks
//     `/tmp/cargo-with-transcripts/bin -> <repo>/bin`.
//   - Installs a hermetic `cargo` by copying `bin/cargostub` into the temp
//     crate as `bin/cargo` and seeding its message fixture.
//   - Honors `CARGO_WITH_CMDTEST_TIMEOUT` (default 10s) to cap runtime.
//   - Honors `CARGO_WITH_CMDTEST_ID` to isolate temp crates for parallel
//     tests.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type tool struct {
	repoRoot        string
	transcriptsRoot string
	cargoStubBinary string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

const defaultTimeout = 10 * time.Second

func newToolFromExecutable() (*tool, error) {
	if root := os.Getenv("CARGO_WITH_REPO_ROOT"); root != "" {
		return newTool(root), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, err
	}
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(exe), ".."))
	return newTool(repoRoot), nil
}

func newTool(repoRoot string) *tool {
	repoRoot = filepath.Clean(repoRoot)
	return &tool{
		repoRoot:        repoRoot,
		transcriptsRoot: "/tmp/cargo-with-transcripts",
		cargoStubBinary: filepath.Join(repoRoot, "bin", "cargostub"),
		stdin:           os.Stdin,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
	}
}

func (t *tool) runCLI(ctx context.Context, args []string) int {
	ctx, cancel, timeout := withTimeoutFromEnv(ctx, "CARGO_WITH_CMDTEST_TIMEOUT", defaultTimeout)
	if cancel != nil {
		defer cancel()
	}

	opts, cmdArgs, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		t.printUsage()
		return 2
	}
	if opts.help {
		t.printUsage()
		return 0
	}

	exitCode, err := t.run(ctx, opts, cmdArgs, timeout)
	if err != nil {
		fmt.Fprintln(t.stderr, err)
		return 1
	}
	return exitCode
}

func (t *tool) printUsage() {
	fmt.Fprint(t.stderr, `Usage: withcmdtest [options] -- <command> [args...]

Sets up a disposable cargo crate with a stubbed cargo binary, runs the given
command inside it, and cleans up afterward. Intended for transcript
integration tests.

Options:
  --messages NAME   Message scenario the cargo stub emits (default single-bin).
  --cargo-exit N    Exit status of the cargo stub (default 0).
  --config TOML     Write the given .cargo-with.toml into the crate.
  --no-manifest     Omit Cargo.toml (for discovery tests).
  --keep            Preserve the temp crate for debugging (prints its path).
`)
}

func (t *tool) run(ctx context.Context, opts options, cmdArgs []string, timeout time.Duration) (int, error) {
	if t.repoRoot == "" {
		return 1, errors.New("repo root is required")
	}
	if _, err := os.Stat(filepath.Join(t.repoRoot, "go.mod")); err != nil {
		return 1, fmt.Errorf("unable to locate cargo-with repo root: %w", err)
	}

	if err := os.MkdirAll(t.transcriptsRoot, 0o755); err != nil {
		return 1, err
	}

	unlock, err := acquireLockFile(ctx, filepath.Join(t.transcriptsRoot, ".lock"), timeout)
	if err != nil {
		return 1, err
	}
	if err := t.ensureBinSymlink(); err != nil {
		unlock()
		return 1, err
	}
	unlock()

	tmpcrate := filepath.Join(t.transcriptsRoot, tmpcrateDirName())
	if err := removeAllUnder(t.transcriptsRoot, tmpcrate); err != nil {
		return 1, err
	}
	if err := t.seedCrate(tmpcrate, opts); err != nil {
		return 1, err
	}
	if err := t.installCargoStub(tmpcrate); err != nil {
		return 1, err
	}

	childEnv := deterministicEnv(os.Environ())
	childEnv = withEnv(childEnv, "CARGO_STUB_MESSAGES", filepath.Join(tmpcrate, ".cargo-messages"))
	childEnv = withEnv(childEnv, "CARGO_STUB_EXIT", filepath.Join(tmpcrate, ".cargo-exit"))
	childEnv = withEnv(childEnv, "PATH", strings.Join([]string{
		filepath.Join(tmpcrate, "bin"),
		filepath.Join(t.transcriptsRoot, "bin"),
		getEnv(childEnv, "PATH"),
	}, string(os.PathListSeparator)))

	cmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	cmd.Dir = tmpcrate
	cmd.Env = withEnv(childEnv, "PWD", tmpcrate)
	cmd.Stdin = t.stdin
	cmd.Stdout = t.stdout
	cmd.Stderr = t.stderr

	runErr := cmd.Run()
	if runErr != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124, fmt.Errorf("withcmdtest: timed out after %s", timeout)
	}
	exitCode := exitStatus(runErr)

	if opts.keepCrate {
		fmt.Fprintf(t.stderr, "temp crate kept at %s\n", tmpcrate)
	} else if cleanupErr := removeAllUnder(t.transcriptsRoot, tmpcrate); cleanupErr != nil {
		return 1, cleanupErr
	}

	return exitCode, nil
}

func (t *tool) ensureBinSymlink() error {
	dst := filepath.Join(t.transcriptsRoot, "bin")
	src := filepath.Join(t.repoRoot, "bin")

	if info, err := os.Lstat(dst); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("refusing to overwrite non-symlink: %s", dst)
		}
		if target, err := os.Readlink(dst); err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(dst), target)
			}
			if filepath.Clean(target) == src {
				return nil
			}
		}
		return fmt.Errorf("symlink %s points somewhere else; remove it to continue", dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.Symlink(src, dst); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	return nil
}

// seedCrate lays out a minimal crate: manifest, a source file, the stub's
// message fixture, and optional exit-status and config files.
func (t *tool) seedCrate(dir string, opts options) error {
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		return err
	}

	if !opts.noManifest {
		manifest := "[package]\nname = \"hello\"\nversion = \"0.1.0\"\nedition = \"2021\"\n"
		if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0o644); err != nil {
			return err
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "main.rs"), []byte("fn main() {}\n"), 0o644); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, ".cargo-messages"), []byte(scenarios[opts.scenario]), 0o644); err != nil {
		return err
	}
	if opts.cargoExit != 0 {
		exit := strconv.Itoa(opts.cargoExit) + "\n"
		if err := os.WriteFile(filepath.Join(dir, ".cargo-exit"), []byte(exit), 0o644); err != nil {
			return err
		}
	}
	if opts.configTOML != "" {
		if err := os.WriteFile(filepath.Join(dir, ".cargo-with.toml"), []byte(opts.configTOML+"\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (t *tool) installCargoStub(tmpcrate string) error {
	stub, err := os.ReadFile(t.cargoStubBinary)
	if err != nil {
		return err
	}

	binDir := filepath.Join(tmpcrate, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(binDir, "cargo"), stub, 0o755)
}

func deterministicEnv(base []string) []string {
	env := envMap(base)
	env["NO_COLOR"] = "1"
	env["CLICOLOR"] = "0"
	env["CLICOLOR_FORCE"] = "0"
	return envSlice(env)
}

func removeAllUnder(root, target string) error {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return err
	}
	if rel == "." {
		return fmt.Errorf("refusing to remove root: %s", root)
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return fmt.Errorf("refusing to remove outside root: %s", target)
	}
	return os.RemoveAll(target)
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 127
}

func withTimeoutFromEnv(ctx context.Context, key string, def time.Duration) (context.Context, context.CancelFunc, time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def.String()
	}
	if raw == "0" || raw == "0s" {
		return ctx, nil, 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		d = def
	}
	next, cancel := context.WithTimeout(ctx, d)
	return next, cancel, d
}

func envMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, entry := range env {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

func envSlice(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}

func withEnv(env []string, key, value string) []string {
	m := envMap(env)
	m[key] = value
	return envSlice(m)
}

func getEnv(env []string, key string) string {
	m := envMap(env)
	return m[key]
}

func tmpcrateDirName() string {
	raw := strings.TrimSpace(os.Getenv("CARGO_WITH_CMDTEST_ID"))
	if raw != "" {
		safe := make([]rune, 0, len(raw))
		for _, r := range raw {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
				safe = append(safe, r)
				continue
			}
			safe = append(safe, '_')
		}
		id := strings.Trim(strings.TrimSpace(string(safe)), "._-")
		if id != "" {
			return "tmpcrate-" + id
		}
	}

	// Fallback: a unique, non-guessable ID to avoid collisions in /tmp.
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("tmpcrate-%d", os.Getpid())
	}
	return "tmpcrate-" + hex.EncodeToString(b[:])
}
