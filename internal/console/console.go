// Package console is the line-oriented operator channel used by the
// interactive partition selector.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console reads operator input one line at a time and writes prompts
// immediately, without buffering.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	ctx context.Context

	start sync.Once
	lines chan line
	err   error
}

type line struct {
	text string
	err  error
}

// New creates a Console over the given input and output.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
		ctx: context.Background(),
	}
}

// WithContext makes ReadLine give up once ctx is done, returning ctx.Err.
// The pending read on the input is abandoned, not interrupted.
func (c *Console) WithContext(ctx context.Context) *Console {
	c.ctx = ctx
	return c
}

// ReadLine blocks until a full line is available and returns it with
// surrounding whitespace trimmed. A final line without a newline is still
// returned; io.EOF is only reported once the input is exhausted.
func (c *Console) ReadLine() (string, error) {
	if c.ctx.Done() == nil {
		return c.read()
	}
	if err := c.ctx.Err(); err != nil {
		return "", err
	}
	if c.err != nil {
		return "", c.err
	}

	c.start.Do(func() {
		c.lines = make(chan line)
		go c.pump()
	})

	select {
	case <-c.ctx.Done():
		return "", c.ctx.Err()
	case l := <-c.lines:
		if l.err != nil {
			c.err = l.err
		}
		return l.text, l.err
	}
}

// pump feeds lines to ReadLine until the input fails.
func (c *Console) pump() {
	for {
		text, err := c.read()
		select {
		case c.lines <- line{text: text, err: err}:
		case <-c.ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (c *Console) read() (string, error) {
	text, err := c.in.ReadString('\n')
	if err == io.EOF && text != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Println writes a line to the operator.
func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

// Printf writes formatted text to the operator.
func (c *Console) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}
