package interp

import (
	"bufio"
	"io"
)

// Context bundles the long-lived interpreter state — the heap, the symbol
// table, the global environment, the singletons, and the standard ports —
// that must be initialized before the reader or evaluator runs. It is
// threaded explicitly through every call instead of being kept in
// package-level statics, so multiple interpreters can coexist in one
// process.
type Context struct {
	Heap   *Heap
	symtab *SymbolTable

	GlobalEnv *Value

	Nil   *Value
	True  *Value
	False *Value
	EOF   *Value

	Stdin  *Value // input-port wrapping the configured stdin
	Stdout *Value // output-port wrapping the configured stdout

	// Diagnostics writer for the host-level "*** message" convention; not a
	// Scheme port, only used by the REPL/load driver in interp.go.
	Stderr io.Writer

	symQuote, symSet, symDefine, symIf, symLambda *Value
	symBegin, symCond, symElse, symLet            *Value
	symAnd, symOr, symOK                           *Value

	evalPrim, applyPrim *Value
}

// Cons allocates a new pair and pins it on the root stack.
func (ctx *Context) Cons(car, cdr *Value) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindPair)
	if err != nil {
		return nil, err
	}
	v.Car = car
	v.Cdr = cdr
	return v, nil
}

// list builds a proper list of vs, right to left, via Cons.
func (ctx *Context) list(vs ...*Value) (*Value, error) {
	result := ctx.Nil
	for i := len(vs) - 1; i >= 0; i-- {
		var err error
		result, err = ctx.Cons(vs[i], result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// NewFixnum allocates a fixed-width integer value.
func (ctx *Context) NewFixnum(n int64) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindFixnum)
	if err != nil {
		return nil, err
	}
	v.Fixnum = n
	return v, nil
}

// NewFlonum allocates a double-precision float value.
func (ctx *Context) NewFlonum(f float64) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindFlonum)
	if err != nil {
		return nil, err
	}
	v.Flonum = f
	return v, nil
}

// NewComplex allocates a complex-double value.
func (ctx *Context) NewComplex(re, im float64) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindComplex)
	if err != nil {
		return nil, err
	}
	v.Real, v.Imag = re, im
	return v, nil
}

// NewCharacter allocates a character value.
func (ctx *Context) NewCharacter(c byte) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindCharacter)
	if err != nil {
		return nil, err
	}
	v.Char = c
	return v, nil
}

// NewString allocates a string value with the given bytes.
func (ctx *Context) NewString(s string) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindString)
	if err != nil {
		return nil, err
	}
	v.Str = s
	return v, nil
}

// NewPrimitive allocates a primitive-procedure value wrapping fn.
func (ctx *Context) NewPrimitive(name string, fn Primitive) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindPrimitive)
	if err != nil {
		return nil, err
	}
	v.PrimName = name
	v.Prim = fn
	return v, nil
}

// NewCompound allocates a compound-procedure value capturing env.
func (ctx *Context) NewCompound(params, body, env *Value) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindCompound)
	if err != nil {
		return nil, err
	}
	v.Params = params
	v.Body = body
	v.ProcEnv = env
	return v, nil
}

// newInputPort allocates an input-port value wrapping an already-buffered
// reader. closer may be nil for ports that own nothing to release (stdin).
func (ctx *Context) newInputPort(name string, r *bufio.Reader, closer io.Closer) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindInputPort)
	if err != nil {
		return nil, err
	}
	v.Port = &Port{Name: name, Reader: r, Closer: closer}
	return v, nil
}

// newOutputPort allocates an output-port value wrapping w. closer may be nil
// for ports that own nothing to release (stdout).
func (ctx *Context) newOutputPort(name string, w io.Writer, closer io.Closer) (*Value, error) {
	v, err := ctx.Heap.Alloc(KindOutputPort)
	if err != nil {
		return nil, err
	}
	v.Port = &Port{Name: name, Writer: w, Closer: closer}
	return v, nil
}

// defineGlobal interns name and binds it to val in the outermost frame of
// the global environment.
func (ctx *Context) defineGlobal(name string, val *Value) error {
	sym, err := ctx.Intern(name)
	if err != nil {
		return err
	}
	return DefineVar(ctx, sym, val, ctx.GlobalEnv)
}

func (ctx *Context) definePrimitive(name string, fn Primitive) error {
	p, err := ctx.NewPrimitive(name, fn)
	if err != nil {
		return err
	}
	return ctx.defineGlobal(name, p)
}
