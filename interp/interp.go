package interp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Options configures a new Interpreter. Stdin, Stdout and Stderr default to
// os.Stdin, os.Stdout and os.Stderr respectively when left nil.
type Options struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// Interpreter is the embeddable entry point: construct one with New, then
// drive it with EvalString, Load or REPL. All three share the same global
// environment and heap, so definitions made through one are visible to the
// others.
type Interpreter struct {
	ctx    *Context
	stdout io.Writer
	stderr io.Writer
}

// New returns a ready-to-use Interpreter with its global environment and
// primitive procedures already installed.
func New(options Options) (*Interpreter, error) {
	stdin := options.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := options.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := options.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	ctx, err := NewContext(stdin, stdout, stderr)
	if err != nil {
		return nil, err
	}
	return &Interpreter{ctx: ctx, stdout: stdout, stderr: stderr}, nil
}

// Context exposes the underlying interpreter state for callers that need to
// build values directly (tests, embedders constructing an argument list).
func (interp *Interpreter) Context() *Context { return interp.ctx }

// GlobalEnvironment returns the top-level environment definitions are made
// in by default.
func (interp *Interpreter) GlobalEnvironment() *Value { return interp.ctx.GlobalEnv }

// runProtected evaluates fn with the per-expression root-stack discipline
// (so a long session's transient roots don't grow without bound) and with a
// recover guarding against a genuine Go runtime fault escaping user code —
// distinct from the language's own non-catchable error values, which
// propagate as ordinary returned errors and need no recovery.
func (interp *Interpreter) runProtected(fn func() (*Value, error)) (result *Value, err error) {
	mark := interp.ctx.Heap.SaveRoots()
	defer interp.ctx.Heap.RestoreRoots(mark)
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()
	return fn()
}

// EvalString reads and evaluates every top-level expression in src in
// sequence, returning the value of the last one.
func (interp *Interpreter) EvalString(src string) (*Value, error) {
	rd := NewReader(interp.ctx, strings.NewReader(src))
	result := interp.ctx.symOK
	for {
		v, err := interp.runProtected(func() (*Value, error) {
			exp, err := rd.Read()
			if err != nil {
				return nil, err
			}
			if IsEOF(exp) {
				return nil, nil
			}
			return Eval(interp.ctx, exp, interp.ctx.GlobalEnv)
		})
		if err != nil {
			return nil, err
		}
		if v == nil {
			return result, nil
		}
		result = v
	}
}

// Load evaluates every top-level expression in the named file against the
// global environment. Unlike the load primitive, it prints nothing and
// discards the values; a failure is returned to the caller.
func (interp *Interpreter) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return newIOError("load: %v", err)
	}
	defer f.Close()

	rd := NewReader(interp.ctx, f)
	for {
		v, err := interp.runProtected(func() (*Value, error) {
			exp, err := rd.Read()
			if err != nil {
				return nil, err
			}
			if IsEOF(exp) {
				return interp.ctx.EOF, nil
			}
			return Eval(interp.ctx, exp, interp.ctx.GlobalEnv)
		})
		if err != nil {
			return err
		}
		if v == interp.ctx.EOF {
			return nil
		}
	}
}

// REPL reads expressions from in, evaluates each against the global
// environment, and writes the printed result to the interpreter's
// configured stdout, preceded by prompt. It returns nil when in reaches end
// of file, having printed "Goodbye". A failed read or evaluation is
// reported to stderr as "*** message" and is fatal: REPL stops reading and
// returns that error immediately, exactly as every error path in the
// original does. REPL never calls os.Exit itself; the caller (cmd/sch's
// main) exits the process with status 1 when REPL returns a non-nil error.
func (interp *Interpreter) REPL(in io.Reader, prompt string) error {
	rd := NewReader(interp.ctx, in)
	for {
		if prompt != "" {
			fmt.Fprint(interp.stdout, prompt)
		}
		v, err := interp.runProtected(func() (*Value, error) {
			exp, err := rd.Read()
			if err != nil {
				return nil, err
			}
			if IsEOF(exp) {
				return interp.ctx.EOF, nil
			}
			return Eval(interp.ctx, exp, interp.ctx.GlobalEnv)
		})
		if err != nil {
			fmt.Fprintf(interp.stderr, "*** %s\n", err)
			return err
		}
		if v == interp.ctx.EOF {
			fmt.Fprintln(interp.stdout, "Goodbye")
			return nil
		}
		if err := Write(interp.stdout, v); err != nil {
			fmt.Fprintf(interp.stderr, "*** %s\n", err)
			return err
		}
		fmt.Fprintln(interp.stdout)
	}
}
