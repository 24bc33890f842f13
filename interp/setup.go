package interp

import (
	"bufio"
	"io"
)

// NewContext builds a ready-to-use interpreter context: a fresh heap, the
// four singletons, the special-form symbols the evaluator compares by
// identity, an empty global environment, every built-in procedure bound
// into it, and stdin/stdout wrapped as first-class ports. stdin/stdout are
// not closed by the context; the caller owns their lifetime.
func NewContext(stdin io.Reader, stdout io.Writer, stderr io.Writer) (*Context, error) {
	h := NewHeap(0, 0)
	ctx := &Context{Heap: h, symtab: NewSymbolTable(), Stderr: stderr}

	singleton := func(kind Kind) (*Value, error) {
		v, err := h.Alloc(kind)
		if err != nil {
			return nil, err
		}
		h.AddPermanentRoot(v)
		return v, nil
	}

	var err error
	if ctx.Nil, err = singleton(KindNil); err != nil {
		return nil, err
	}
	if ctx.True, err = singleton(KindBoolean); err != nil {
		return nil, err
	}
	ctx.True.Bool = true
	if ctx.False, err = singleton(KindBoolean); err != nil {
		return nil, err
	}
	ctx.False.Bool = false
	if ctx.EOF, err = singleton(KindEOF); err != nil {
		return nil, err
	}

	names := []struct {
		sym  **Value
		name string
	}{
		{&ctx.symQuote, "quote"},
		{&ctx.symSet, "set!"},
		{&ctx.symDefine, "define"},
		{&ctx.symIf, "if"},
		{&ctx.symLambda, "lambda"},
		{&ctx.symBegin, "begin"},
		{&ctx.symCond, "cond"},
		{&ctx.symElse, "else"},
		{&ctx.symLet, "let"},
		{&ctx.symAnd, "and"},
		{&ctx.symOr, "or"},
		{&ctx.symOK, "ok"},
	}
	for _, n := range names {
		sym, err := ctx.Intern(n.name)
		if err != nil {
			return nil, err
		}
		*n.sym = sym
		h.AddPermanentRoot(sym)
	}

	frame, err := ctx.Cons(ctx.Nil, ctx.Nil)
	if err != nil {
		return nil, err
	}
	ctx.GlobalEnv, err = ctx.Cons(frame, ctx.Nil)
	if err != nil {
		return nil, err
	}
	h.AddPermanentRoot(ctx.GlobalEnv)

	// eval and apply are bound like any other primitive, but Eval's
	// trampoline also needs to recognize them by pointer identity to keep
	// tail calls through them from growing the Go call stack, so the
	// Values are kept on the context instead of only in the environment.
	ctx.evalPrim, err = ctx.NewPrimitive("eval", primEval)
	if err != nil {
		return nil, err
	}
	if err := ctx.defineGlobal("eval", ctx.evalPrim); err != nil {
		return nil, err
	}
	h.AddPermanentRoot(ctx.evalPrim)

	ctx.applyPrim, err = ctx.NewPrimitive("apply", primApply)
	if err != nil {
		return nil, err
	}
	if err := ctx.defineGlobal("apply", ctx.applyPrim); err != nil {
		return nil, err
	}
	h.AddPermanentRoot(ctx.applyPrim)

	if err := registerArithmetic(ctx); err != nil {
		return nil, err
	}
	if err := registerPrimitives(ctx); err != nil {
		return nil, err
	}
	if err := registerPorts(ctx); err != nil {
		return nil, err
	}

	ctx.Stdin, err = ctx.newInputPort("stdin", bufio.NewReader(stdin), nil)
	if err != nil {
		return nil, err
	}
	h.AddPermanentRoot(ctx.Stdin)

	ctx.Stdout, err = ctx.newOutputPort("stdout", stdout, nil)
	if err != nil {
		return nil, err
	}
	h.AddPermanentRoot(ctx.Stdout)

	return ctx, nil
}
