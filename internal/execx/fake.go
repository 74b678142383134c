package execx

import (
	"context"
	"fmt"
	"sync"
)

// Fake is a scripted Executor for tests.
//
// Responses are keyed by Command.String(). A command registered with
// NotFound fails to launch. Unscripted commands also fail to launch, which
// mirrors a host where the program is not installed. Like OS, a run under
// a cancelled context returns the context error.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Result
	missing   map[string]bool
	hooks     map[string]func()
	calls     []Command
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]Result),
		missing:   make(map[string]bool),
		hooks:     make(map[string]func()),
	}
}

// On scripts the result for a command line.
func (f *Fake) On(cmdline string, res Result) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = res
	delete(f.missing, cmdline)
	return f
}

// Stdout scripts a successful run with the given standard output.
func (f *Fake) Stdout(cmdline, stdout string) *Fake {
	return f.On(cmdline, Result{Stdout: stdout})
}

// NotFound makes a command line fail to launch.
func (f *Fake) NotFound(cmdline string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[cmdline] = true
	delete(f.responses, cmdline)
	return f
}

// OnRun calls fn each time cmdline is run, before the result is chosen.
// Tests use it to cancel a context while a command is in flight.
func (f *Fake) OnRun(cmdline string, fn func()) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[cmdline] = fn
	return f
}

// Run implements Executor.
func (f *Fake) Run(ctx context.Context, c Command) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, c)
	key := c.String()
	if fn := f.hooks[key]; fn != nil {
		fn()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if f.missing[key] {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, c.Name)
	}
	res, ok := f.responses[key]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s (not scripted)", ErrNotFound, c.Name)
	}
	return res, nil
}

// Calls returns the commands run so far, in order.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// Ran reports whether a command line has been run.
func (f *Fake) Ran(cmdline string) bool {
	for _, c := range f.Calls() {
		if c.String() == cmdline {
			return true
		}
	}
	return false
}
