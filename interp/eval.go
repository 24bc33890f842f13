package interp

// Eval interprets exp against env and returns its value. The function is a
// trampoline: the forms that may appear in tail position rebind exp/env
// and loop instead of recursing, giving proper tail calls for if, begin,
// cond, let, and, or, and application without relying on the Go call stack.
func Eval(ctx *Context, exp *Value, env *Value) (*Value, error) {
	rootMark := ctx.Heap.SaveRoots()
	for {
		switch {
		case isSelfEvaluating(exp):
			return exp, nil

		case IsSymbol(exp):
			return Lookup(exp, env)

		case IsTaggedList(exp, ctx.symQuote):
			return cadr(exp), nil

		case IsTaggedList(exp, ctx.symSet):
			val, err := Eval(ctx, caddr(exp), env)
			if err != nil {
				return nil, err
			}
			if err := SetVar(cadr(exp), val, env); err != nil {
				return nil, err
			}
			return ctx.symOK, nil

		case IsTaggedList(exp, ctx.symDefine):
			return evalDefine(ctx, exp, env)

		case IsTaggedList(exp, ctx.symIf):
			pred, err := Eval(ctx, cadr(exp), env)
			if err != nil {
				return nil, err
			}
			if IsTrue(pred) {
				exp = caddr(exp)
			} else if IsNil(cdddr(exp)) {
				exp = ctx.False
			} else {
				exp = cadddr(exp)
			}
			continue

		case IsTaggedList(exp, ctx.symLambda):
			return ctx.NewCompound(cadr(exp), exp.Cdr.Cdr, env)

		case IsTaggedList(exp, ctx.symBegin):
			body := exp.Cdr
			if IsNil(body) {
				return ctx.symOK, nil
			}
			for !IsNil(body.Cdr) {
				if _, err := Eval(ctx, body.Car, env); err != nil {
					return nil, err
				}
				body = body.Cdr
			}
			exp = body.Car
			continue

		case IsTaggedList(exp, ctx.symCond):
			rewritten, err := ctx.desugarCond(exp.Cdr)
			if err != nil {
				return nil, err
			}
			exp = rewritten
			continue

		case IsTaggedList(exp, ctx.symLet):
			rewritten, err := ctx.desugarLet(exp.Cdr)
			if err != nil {
				return nil, err
			}
			exp = rewritten
			continue

		case IsTaggedList(exp, ctx.symAnd):
			clauses := exp.Cdr
			if IsNil(clauses) {
				return ctx.True, nil
			}
			for !IsNil(clauses.Cdr) {
				v, err := Eval(ctx, clauses.Car, env)
				if err != nil {
					return nil, err
				}
				if !IsTrue(v) {
					return ctx.False, nil
				}
				clauses = clauses.Cdr
			}
			exp = clauses.Car
			continue

		case IsTaggedList(exp, ctx.symOr):
			clauses := exp.Cdr
			if IsNil(clauses) {
				return ctx.False, nil
			}
			for !IsNil(clauses.Cdr) {
				v, err := Eval(ctx, clauses.Car, env)
				if err != nil {
					return nil, err
				}
				if IsTrue(v) {
					return v, nil
				}
				clauses = clauses.Cdr
			}
			exp = clauses.Car
			continue

		case IsPair(exp):
			proc, err := Eval(ctx, exp.Car, env)
			if err != nil {
				return nil, err
			}
			args, err := evalArgs(ctx, exp.Cdr, env)
			if err != nil {
				return nil, err
			}

			if proc == ctx.evalPrim {
				if IsNil(args) {
					return nil, newArityError("eval: requires at least one argument")
				}
				exp = args.Car
				if IsNil(args.Cdr) {
					env = ctx.GlobalEnv
				} else {
					env = cadr(args)
				}
				continue
			}
			if proc == ctx.applyPrim {
				newArgs, err := ctx.reformApplyArgs(args.Cdr)
				if err != nil {
					return nil, err
				}
				proc = args.Car
				args = newArgs
			}

			switch proc.Kind {
			case KindPrimitive:
				return proc.Prim(ctx, args)
			case KindCompound:
				newEnv, err := ctx.Extend(proc.Params, args, proc.ProcEnv)
				if err != nil {
					return nil, err
				}
				begin, err := ctx.Cons(ctx.symBegin, proc.Body)
				if err != nil {
					return nil, err
				}
				exp, env = begin, newEnv
				// A tail call keeps only the new exp and env alive, so the
				// transient roots pushed since this Eval began are dropped
				// and those two pinned again; otherwise a long tail loop
				// would overflow the bounded root stack.
				ctx.Heap.RestoreRoots(rootMark)
				if err := ctx.Heap.pushRoot(env); err != nil {
					return nil, err
				}
				if err := ctx.Heap.pushRoot(exp); err != nil {
					return nil, err
				}
				continue
			default:
				return nil, newTypeError("object is not callable")
			}

		default:
			return nil, newTypeError("cannot evaluate unknown expression type")
		}
	}
}

func isSelfEvaluating(exp *Value) bool {
	switch exp.Kind {
	case KindBoolean, KindFixnum, KindFlonum, KindComplex, KindCharacter, KindString:
		return true
	default:
		return false
	}
}

func evalDefine(ctx *Context, exp *Value, env *Value) (*Value, error) {
	target := cadr(exp)
	switch {
	case IsSymbol(target):
		val, err := Eval(ctx, caddr(exp), env)
		if err != nil {
			return nil, err
		}
		if err := DefineVar(ctx, target, val, env); err != nil {
			return nil, err
		}
		return ctx.symOK, nil
	case IsPair(target):
		name := target.Car
		params := target.Cdr
		body := exp.Cdr.Cdr
		proc, err := ctx.NewCompound(params, body, env)
		if err != nil {
			return nil, err
		}
		if err := DefineVar(ctx, name, proc, env); err != nil {
			return nil, err
		}
		return ctx.symOK, nil
	default:
		return nil, newTypeError("invalid define target")
	}
}

// evalArgs evaluates a list of operand expressions left to right into a
// freshly consed argument list, evaluating operands strictly left to right.
func evalArgs(ctx *Context, exps *Value, env *Value) (*Value, error) {
	if IsNil(exps) {
		return ctx.Nil, nil
	}
	v, err := Eval(ctx, exps.Car, env)
	if err != nil {
		return nil, err
	}
	rest, err := evalArgs(ctx, exps.Cdr, env)
	if err != nil {
		return nil, err
	}
	return ctx.Cons(v, rest)
}

// reformApplyArgs turns (arg1 arg2 ... argN finalList), the operand list of
// an (apply proc arg1 ... finalList) call after the proc itself has been
// stripped off, into (arg1 arg2 ... argN elt1 elt2 ...).
func (ctx *Context) reformApplyArgs(rest *Value) (*Value, error) {
	if IsNil(rest) {
		return ctx.Nil, nil
	}
	if IsNil(rest.Cdr) {
		if !IsPair(rest.Car) && !IsNil(rest.Car) {
			return nil, newTypeError("apply: last argument must be a list")
		}
		return rest.Car, nil
	}
	tail, err := ctx.reformApplyArgs(rest.Cdr)
	if err != nil {
		return nil, err
	}
	return ctx.Cons(rest.Car, tail)
}

// desugarCond rewrites a list of cond clauses into nested if forms, per
// An else clause, if present, must be the last clause.
func (ctx *Context) desugarCond(clauses *Value) (*Value, error) {
	if IsNil(clauses) {
		return ctx.False, nil
	}
	clause := clauses.Car
	test := clause.Car
	if IsSymbol(test) && test == ctx.symElse {
		if !IsNil(clauses.Cdr) {
			return nil, newReadError("else clause must be last in cond")
		}
		return ctx.beginWrap(clause.Cdr)
	}
	rest, err := ctx.desugarCond(clauses.Cdr)
	if err != nil {
		return nil, err
	}
	consequent, err := ctx.beginWrap(clause.Cdr)
	if err != nil {
		return nil, err
	}
	return ctx.list(ctx.symIf, test, consequent, rest)
}

// desugarLet rewrites (let ((v e)...) body...) into
// ((lambda (v...) body...) e...).
func (ctx *Context) desugarLet(rest *Value) (*Value, error) {
	bindings := rest.Car
	body := rest.Cdr
	vars, vals, err := ctx.splitBindings(bindings)
	if err != nil {
		return nil, err
	}
	lambdaBody, err := ctx.Cons(vars, body)
	if err != nil {
		return nil, err
	}
	lambda, err := ctx.Cons(ctx.symLambda, lambdaBody)
	if err != nil {
		return nil, err
	}
	return ctx.Cons(lambda, vals)
}

func (ctx *Context) splitBindings(bindings *Value) (*Value, *Value, error) {
	if IsNil(bindings) {
		return ctx.Nil, ctx.Nil, nil
	}
	binding := bindings.Car
	v, e := binding.Car, cadr(binding)
	restVars, restVals, err := ctx.splitBindings(bindings.Cdr)
	if err != nil {
		return nil, nil, err
	}
	vars, err := ctx.Cons(v, restVars)
	if err != nil {
		return nil, nil, err
	}
	vals, err := ctx.Cons(e, restVals)
	if err != nil {
		return nil, nil, err
	}
	return vars, vals, nil
}

func (ctx *Context) beginWrap(body *Value) (*Value, error) {
	return ctx.Cons(ctx.symBegin, body)
}

// Apply invokes proc with an already-evaluated argument list, used by the
// apply primitive's non-tail fallback path (reached only when apply is
// itself the target of another apply, rather than the direct
// operator of an application — the common case is handled in Eval's
// trampoline loop without recursing through here).
func Apply(ctx *Context, proc *Value, args *Value) (*Value, error) {
	switch proc.Kind {
	case KindPrimitive:
		return proc.Prim(ctx, args)
	case KindCompound:
		env, err := ctx.Extend(proc.Params, args, proc.ProcEnv)
		if err != nil {
			return nil, err
		}
		begin, err := ctx.beginWrap(proc.Body)
		if err != nil {
			return nil, err
		}
		return Eval(ctx, begin, env)
	default:
		return nil, newTypeError("object is not callable")
	}
}
