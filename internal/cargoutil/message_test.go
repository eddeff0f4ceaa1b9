package cargoutil

import (
	"io"
	"strings"
	"testing"
)

const artifactLine = `{"reason":"compiler-artifact","package_id":"path+file:///crate/hello#0.1.0","target":{"kind":["bin"],"crate_types":["bin"],"name":"hello","src_path":"/crate/src/main.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":false},"features":["default"],"filenames":["/t/debug/hello"],"executable":"/t/debug/hello","fresh":true}`

func TestMessageReaderDecodesArtifacts(t *testing.T) {
	r := NewMessageReader(strings.NewReader(artifactLine + "\n"))

	msg, err := r.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if msg.Reason != ReasonCompilerArtifact {
		t.Fatalf("Reason = %q, want %q", msg.Reason, ReasonCompilerArtifact)
	}
	if msg.Target.Name != "hello" || !msg.Target.hasKind("bin") {
		t.Fatalf("unexpected target: %+v", msg.Target)
	}
	if msg.Executable != "/t/debug/hello" {
		t.Fatalf("Executable = %q, want /t/debug/hello", msg.Executable)
	}
	if !msg.Fresh {
		t.Fatalf("Fresh = false, want true")
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next after last line = %v, want io.EOF", err)
	}
}

func TestMessageReaderToleratesJunk(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{name: "not json", line: "warning: something human readable"},
		{name: "wrong shape", line: `{"reason":"compiler-artifact","target":"oops"}`},
		{name: "json array", line: `[1,2,3]`},
		{name: "blank", line: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewMessageReader(strings.NewReader(tc.line + "\n"))
			msg, err := r.Next()
			if err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
			if msg.Reason != "" {
				t.Fatalf("Reason = %q, want empty for unrecognized line", msg.Reason)
			}
		})
	}
}

func TestMessageReaderNullExecutable(t *testing.T) {
	line := `{"reason":"compiler-artifact","target":{"kind":["lib"],"name":"hello"},"profile":{"test":false},"executable":null}`
	r := NewMessageReader(strings.NewReader(line + "\n"))
	msg, err := r.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if msg.Executable != "" {
		t.Fatalf("Executable = %q, want empty for null", msg.Executable)
	}
}

func TestMessageReaderLongLines(t *testing.T) {
	// Compiler diagnostics exceed bufio's 64K default token size.
	rendered := strings.Repeat("x", 256*1024)
	lines := `{"reason":"compiler-message","message":{"rendered":"` + rendered + `"}}` + "\n" + artifactLine + "\n"

	r := NewMessageReader(strings.NewReader(lines))
	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next on long line returned error: %v", err)
	}
	if first.Reason != "compiler-message" {
		t.Fatalf("Reason = %q, want compiler-message", first.Reason)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next after long line returned error: %v", err)
	}
	if second.Reason != ReasonCompilerArtifact {
		t.Fatalf("Reason = %q, want %q", second.Reason, ReasonCompilerArtifact)
	}
}

func TestMessageReaderBuildFinished(t *testing.T) {
	r := NewMessageReader(strings.NewReader(`{"reason":"build-finished","success":true}` + "\n"))
	msg, err := r.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if msg.Reason != ReasonBuildFinished || !msg.Success {
		t.Fatalf("got %+v, want successful build-finished", msg)
	}
}
