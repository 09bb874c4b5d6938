// Package progtest contains utilities for testing [prog.Program] instances.
package progtest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"src.deck.sh/pkg/must"
	"src.deck.sh/pkg/prog"
)

// Case is a test case for a program. It is created by ThatDeck, and
// augmented by its setters, which return the receiver.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit           int
	stdout, stderr output
}

type output struct {
	content  string
	partial  bool
	anything bool
}

func (o output) String() string {
	switch {
	case o.anything:
		return "anything"
	case o.partial:
		return fmt.Sprintf("text containing %q", o.content)
	}
	return fmt.Sprintf("%q", o.content)
}

func (o output) matches(s string) bool {
	switch {
	case o.anything:
		return true
	case o.partial:
		return strings.Contains(s, o.content)
	}
	return s == o.content
}

// ThatDeck returns a new Case that runs the program with the given
// arguments. By default the program is expected to exit with 0 and write
// nothing to stdout or stderr.
func ThatDeck(args ...string) *Case {
	return &Case{args: append([]string{"deck"}, args...)}
}

// WithStdin sets the content of the standard input.
func (c *Case) WithStdin(s string) *Case {
	c.stdin = s
	return c
}

// DoesNothing is equivalent to WritesStdout("").
func (c *Case) DoesNothing() *Case {
	return c
}

// ExitsWith requires the program to exit with the given code.
func (c *Case) ExitsWith(code int) *Case {
	c.want.exit = code
	return c
}

// WritesStdout requires the program to write exactly the given text to stdout.
func (c *Case) WritesStdout(s string) *Case {
	c.want.stdout = output{content: s}
	return c
}

// WritesStdoutContaining requires stdout to contain the given text.
func (c *Case) WritesStdoutContaining(s string) *Case {
	c.want.stdout = output{content: s, partial: true}
	return c
}

// WritesAnyStdout accepts any output on stdout.
func (c *Case) WritesAnyStdout() *Case {
	c.want.stdout = output{anything: true}
	return c
}

// WritesStderr requires the program to write exactly the given text to stderr.
func (c *Case) WritesStderr(s string) *Case {
	c.want.stderr = output{content: s}
	return c
}

// WritesStderrContaining requires stderr to contain the given text.
func (c *Case) WritesStderrContaining(s string) *Case {
	c.want.stderr = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, tests ...*Case) {
	t.Helper()
	for _, test := range tests {
		t.Run(strings.Join(test.args, " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := Run(p, test.stdin, test.args...)
			if exit != test.want.exit {
				t.Errorf("got exit %v, want %v", exit, test.want.exit)
			}
			if !test.want.stdout.matches(stdout) {
				t.Errorf("got stdout %q, want %s", stdout, test.want.stdout)
			}
			if !test.want.stderr.matches(stderr) {
				t.Errorf("got stderr %q, want %s", stderr, test.want.stderr)
			}
		})
	}
}

// Run runs a program with the given stdin and arguments, which should start
// with the program name. It returns the exit status and what was written to
// stdout and stderr.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	// Read outputs concurrently so that the program doesn't block on a full
	// pipe.
	outCh, errCh := readAllAsync(r1), readAllAsync(r2)

	exit = prog.Run([3]*os.File{r0, w1, w2}, args, p)
	w1.Close()
	w2.Close()
	r0.Close()
	return exit, <-outCh, <-errCh
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}
