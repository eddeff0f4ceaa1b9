// Package withcmd parses the user's command template and binds it to a built
// artifact, producing the final argument vector to launch.
package withcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Placeholders recognized in the command template. {bin} may appear anywhere
// inside a token; {args} only counts as a whole token.
const (
	binToken  = "{bin}"
	argsToken = "{args}"
)

// ErrEmptyTemplate reports a command string that tokenized to nothing.
var ErrEmptyTemplate = errors.New("empty with command")

// SyntaxError reports a command string that could not be tokenized, for
// example one with an unterminated quote.
type SyntaxError struct {
	Raw string
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse with command %q: %v", e.Raw, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Template is a tokenized command string not yet bound to an artifact.
type Template struct {
	tokens []string
}

// Parse tokenizes the raw command string, honoring shell-style quoting so a
// single argument like "gdb -ex 'break main'" splits the way the user meant.
func Parse(raw string) (*Template, error) {
	tokens, err := shellquote.Split(raw)
	if err != nil {
		return nil, &SyntaxError{Raw: raw, Err: err}
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyTemplate
	}
	return &Template{tokens: tokens}, nil
}

// Tokens returns the parsed tokens with placeholders intact.
func (t *Template) Tokens() []string {
	return append([]string(nil), t.tokens...)
}

// Expand binds the artifact path and the residual arguments, yielding the
// argv to execute. Every {bin} occurrence is replaced inside its token; an
// {args} token expands in place to the residual arguments, one token each.
// When a placeholder never appears its value is appended instead, the path
// first and the arguments after it, so plain templates like "gdb" still see
// everything.
func (t *Template) Expand(binPath string, args []string) []string {
	argv := make([]string, 0, len(t.tokens)+len(args)+1)
	usedBin := false
	usedArgs := false
	for _, tok := range t.tokens {
		if tok == argsToken {
			usedArgs = true
			argv = append(argv, args...)
			continue
		}
		if strings.Contains(tok, binToken) {
			usedBin = true
			tok = strings.ReplaceAll(tok, binToken, binPath)
		}
		argv = append(argv, tok)
	}
	if !usedBin {
		argv = append(argv, binPath)
	}
	if !usedArgs {
		argv = append(argv, args...)
	}
	return argv
}
