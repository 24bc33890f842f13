package interp

// Environments are represented the same way every other compound value is:
// a list of frames built from ordinary pairs, so the collector that already
// traces car/cdr chains traces environments for free, and so an environment
// handed to (eval expr env) is just another first-class Value. Each frame
// is a pair whose car is the list of bound symbols and whose cdr is the
// parallel list of values.

// Lookup scans env frame by frame, nearest first, for variable var
// (compared by pointer identity — var must be an interned symbol), and
// returns its bound value or an unbound-variable error.
func Lookup(variable *Value, env *Value) (*Value, error) {
	for e := env; !IsNil(e); e = e.Cdr {
		frame := e.Car
		vars, vals := frame.Car, frame.Cdr
		for !IsNil(vars) {
			if vars.Car == variable {
				return vals.Car, nil
			}
			vars, vals = vars.Cdr, vals.Cdr
		}
	}
	return nil, newUnboundVariableError(variable.Str)
}

// SetVar mutates the value cell bound to var in the nearest enclosing frame
// that defines it, or fails with an unbound-variable error.
func SetVar(variable *Value, val *Value, env *Value) error {
	for e := env; !IsNil(e); e = e.Cdr {
		frame := e.Car
		vars, vals := frame.Car, frame.Cdr
		for !IsNil(vars) {
			if vars.Car == variable {
				vals.Car = val
				return nil
			}
			vars, vals = vars.Cdr, vals.Cdr
		}
	}
	return newUnboundVariableError(variable.Str)
}

// DefineVar binds var to val in the innermost frame of env only, overwriting
// an existing binding for var in that frame or prepending a new one.
func DefineVar(ctx *Context, variable *Value, val *Value, env *Value) error {
	frame := env.Car
	vars, vals := frame.Car, frame.Cdr
	for !IsNil(vars) {
		if vars.Car == variable {
			vals.Car = val
			return nil
		}
		vars, vals = vars.Cdr, vals.Cdr
	}
	newVars, err := ctx.Cons(variable, frame.Car)
	if err != nil {
		return err
	}
	newVals, err := ctx.Cons(val, frame.Cdr)
	if err != nil {
		return err
	}
	frame.Car = newVars
	frame.Cdr = newVals
	return nil
}

// Extend allocates a new frame pairing vars and vals and conses it onto
// parent. When vars is an improper list ending in a bare symbol, the
// remaining vals are collected into a list bound to that symbol, enabling
// variadic lambdas. Arity mismatches for a non-rest parameter list surface
// as an arity-error.
func (ctx *Context) Extend(vars, vals, parent *Value) (*Value, error) {
	frameVars, frameVals, err := ctx.bindParams(vars, vals)
	if err != nil {
		return nil, err
	}
	frame, err := ctx.Cons(frameVars, frameVals)
	if err != nil {
		return nil, err
	}
	return ctx.Cons(frame, parent)
}

func (ctx *Context) bindParams(vars, vals *Value) (*Value, *Value, error) {
	switch {
	case IsNil(vars):
		if !IsNil(vals) {
			return nil, nil, newArityError("too many arguments")
		}
		return ctx.Nil, ctx.Nil, nil
	case IsSymbol(vars):
		restVars, err := ctx.Cons(vars, ctx.Nil)
		if err != nil {
			return nil, nil, err
		}
		restVals, err := ctx.Cons(vals, ctx.Nil)
		if err != nil {
			return nil, nil, err
		}
		return restVars, restVals, nil
	case IsPair(vars):
		if !IsPair(vals) {
			return nil, nil, newArityError("too few arguments")
		}
		restVars, restVals, err := ctx.bindParams(vars.Cdr, vals.Cdr)
		if err != nil {
			return nil, nil, err
		}
		frameVars, err := ctx.Cons(vars.Car, restVars)
		if err != nil {
			return nil, nil, err
		}
		frameVals, err := ctx.Cons(vals.Car, restVals)
		if err != nil {
			return nil, nil, err
		}
		return frameVars, frameVals, nil
	default:
		return nil, nil, newTypeError("invalid parameter list")
	}
}
