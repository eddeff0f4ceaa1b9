package withcmd

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseTokenizesWithQuoting(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "bare command",
			raw:  "gdb",
			want: []string{"gdb"},
		},
		{
			name: "flags and placeholders",
			raw:  "gdb --args {bin} {args}",
			want: []string{"gdb", "--args", "{bin}", "{args}"},
		},
		{
			name: "single quotes keep spaces",
			raw:  "gdb -ex 'break main' {bin}",
			want: []string{"gdb", "-ex", "break main", "{bin}"},
		},
		{
			name: "double quotes keep spaces",
			raw:  `sh -c "echo hi"`,
			want: []string{"sh", "-c", "echo hi"},
		},
		{
			name: "collapses runs of whitespace",
			raw:  "  valgrind   --leak-check=full  ",
			want: []string{"valgrind", "--leak-check=full"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tmpl, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.raw, err)
			}
			if got := tmpl.Tokens(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t"} {
		if _, err := Parse(raw); !errors.Is(err, ErrEmptyTemplate) {
			t.Fatalf("Parse(%q) = %v, want ErrEmptyTemplate", raw, err)
		}
	}
}

func TestParseUnterminatedQuote(t *testing.T) {
	_, err := Parse("gdb 'unterminated")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Parse = %v, want *SyntaxError", err)
	}
}

func TestExpand(t *testing.T) {
	const bin = "/target/debug/app"

	cases := []struct {
		name string
		raw  string
		args []string
		want []string
	}{
		{
			name: "no placeholders appends bin then args",
			raw:  "gdb",
			args: []string{"--foo", "bar"},
			want: []string{"gdb", bin, "--foo", "bar"},
		},
		{
			name: "bin placeholder only appends args at end",
			raw:  "lldb {bin}",
			args: []string{"-x"},
			want: []string{"lldb", bin, "-x"},
		},
		{
			name: "args before bin stay reordered",
			raw:  "echo {args} {bin}",
			args: []string{"a", "b"},
			want: []string{"echo", "a", "b", bin},
		},
		{
			name: "bin expands inside a token",
			raw:  "wrapper --target={bin}",
			args: nil,
			want: []string{"wrapper", "--target=" + bin},
		},
		{
			name: "bin in first token is still a substitution",
			raw:  "{bin} {args}",
			args: []string{"-v"},
			want: []string{bin, "-v"},
		},
		{
			name: "args token with empty residual disappears",
			raw:  "gdb {args} {bin}",
			args: nil,
			want: []string{"gdb", bin},
		},
		{
			name: "args placeholder not whole token is literal",
			raw:  "echo x{args} {bin}",
			args: []string{"a"},
			want: []string{"echo", "x{args}", bin, "a"},
		},
		{
			name: "repeated bin placeholder expands every time",
			raw:  "diff {bin} {bin}",
			args: nil,
			want: []string{"diff", bin, bin},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tmpl, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.raw, err)
			}
			if got := tmpl.Expand(bin, tc.args); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpandTokenCount(t *testing.T) {
	// With both placeholders present, expansion yields one token per
	// template token minus the {args} slot, plus one per residual argument.
	tmpl, err := Parse("tool {args} --x {bin}")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	args := []string{"1", "2", "3"}
	got := tmpl.Expand("/bin/app", args)
	want := 4 - 1 + len(args)
	if len(got) != want {
		t.Fatalf("got %d tokens (%v), want %d", len(got), got, want)
	}
}

func TestWrapperIgnoresBinIdentity(t *testing.T) {
	// Wrapping a command that never names the binary must behave like
	// appending: template callers depend on this for plain "gdb".
	tmpl, err := Parse("time")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	got := tmpl.Expand("/b", []string{"x"})
	want := []string{"time", "/b", "x"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
