package cargoutil

import (
	"bufio"
	"encoding/json"
	"io"
)

// Message reasons emitted by cargo under --message-format=json. Lines with
// any other reason (or no decodable reason at all) are carried through and
// ignored by selection, which keeps the wrapper compatible with message
// shapes introduced by newer cargo releases.
const (
	ReasonCompilerArtifact = "compiler-artifact"
	ReasonBuildFinished    = "build-finished"
)

// Message is one line of cargo's JSON message stream. Only the fields
// selection needs are decoded.
type Message struct {
	Reason    string   `json:"reason"`
	PackageID string   `json:"package_id"`
	Target    Target   `json:"target"`
	Profile   Profile  `json:"profile"`
	Features  []string `json:"features"`
	Filenames []string `json:"filenames"`
	// Executable is the path of the final runnable form, or empty for
	// intermediate artifacts such as rlibs.
	Executable string `json:"executable"`
	Fresh      bool   `json:"fresh"`

	// Success is only meaningful for build-finished messages.
	Success bool `json:"success"`
}

// Target identifies the crate target an artifact was compiled from.
type Target struct {
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
	Name       string   `json:"name"`
	SrcPath    string   `json:"src_path"`
	Edition    string   `json:"edition"`
}

// hasKind reports whether the target was built as the given kind.
func (t Target) hasKind(kind string) bool {
	for _, k := range t.Kind {
		if k == kind {
			return true
		}
	}
	return false
}

// primaryKind is the kind cargo lists first, used when describing the target.
func (t Target) primaryKind() string {
	if len(t.Kind) == 0 {
		return "unknown"
	}
	return t.Kind[0]
}

// Profile carries the compiler settings an artifact was built with. Test is
// set for binaries compiled under the test harness, including the unit-test
// binaries of library targets.
type Profile struct {
	OptLevel        string `json:"opt_level"`
	DebugAssertions bool   `json:"debug_assertions"`
	Test            bool   `json:"test"`
}

// Rendered compiler diagnostics routinely blow past bufio.Scanner's 64K
// default token size.
const maxMessageLine = 4 * 1024 * 1024

// MessageReader decodes cargo's line-oriented message stream. The sequence is
// lazy, finite, and cannot be restarted.
type MessageReader struct {
	scanner *bufio.Scanner
}

// NewMessageReader wraps the build subprocess's stdout.
func NewMessageReader(r io.Reader) *MessageReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxMessageLine)
	return &MessageReader{scanner: s}
}

// Next returns the next message in the stream, or io.EOF once the stream is
// exhausted. A line that does not decode as a cargo message yields a Message
// with an empty Reason rather than an error, so one unrecognized line never
// aborts the build.
func (r *MessageReader) Next() (Message, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Message{}, err
		}
		return Message{}, io.EOF
	}
	var msg Message
	if err := json.Unmarshal(r.scanner.Bytes(), &msg); err != nil {
		return Message{}, nil
	}
	return msg, nil
}
