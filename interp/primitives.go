package interp

import "strings"

// registerPrimitives binds every built-in procedure that is not arithmetic
// or port-related (those live in arith.go and ports.go) into the global
// environment.
func registerPrimitives(ctx *Context) error {
	prims := map[string]Primitive{
		"null?":          primNullP,
		"pair?":          primPairP,
		"symbol?":        primSymbolP,
		"string?":        primStringP,
		"boolean?":       primBooleanP,
		"integer?":       primIntegerP,
		"real?":          primRealP,
		"complex?":       primComplexP,
		"char?":          primCharP,
		"procedure?":     primProcedureP,
		"input-port?":    primInputPortP,
		"output-port?":   primOutputPortP,
		"eof-object?":    primEofObjectP,
		"char->integer":  primCharToInteger,
		"integer->char":  primIntegerToChar,
		"number->string": primNumberToString,
		"string->number": primStringToNumber,
		"symbol->string": primSymbolToString,
		"string->symbol": primStringToSymbol,
		"cons":           primCons,
		"car":            primCar,
		"cdr":            primCdr,
		"set-car!":       primSetCar,
		"set-cdr!":       primSetCdr,
		"list":           primList,
		"eq?":            primEqP,
		"interaction-environment": primInteractionEnvironment,
		"null-environment":        primNullEnvironment,
		"environment":             primNullEnvironment,
		"error":                   primError,
		"gc":                      primGC,
		"gc-stats":                primGCStats,
	}
	for name, fn := range prims {
		if err := ctx.definePrimitive(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func boolVal(ctx *Context, ok bool) *Value {
	if ok {
		return ctx.True
	}
	return ctx.False
}

func onlyArg(args *Value, who string) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) != 1 {
		return nil, newArityError("%s: requires exactly one argument", who)
	}
	return vs[0], nil
}

func primNullP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "null?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsNil(v)), nil
}

func primPairP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "pair?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsPair(v)), nil
}

func primSymbolP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "symbol?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsSymbol(v)), nil
}

func primStringP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "string?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsString(v)), nil
}

func primBooleanP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "boolean?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsBoolean(v)), nil
}

func primIntegerP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "integer?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsFixnum(v)), nil
}

func primRealP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "real?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsFixnum(v) || IsFlonum(v)), nil
}

func primComplexP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "complex?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsNumber(v)), nil
}

func primCharP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "char?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsCharacter(v)), nil
}

func primProcedureP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "procedure?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsProcedure(v)), nil
}

func primInputPortP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "input-port?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, v.Kind == KindInputPort), nil
}

func primOutputPortP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "output-port?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, v.Kind == KindOutputPort), nil
}

func primEofObjectP(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "eof-object?")
	if err != nil {
		return nil, err
	}
	return boolVal(ctx, IsEOF(v)), nil
}

func primCharToInteger(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "char->integer")
	if err != nil {
		return nil, err
	}
	if !IsCharacter(v) {
		return nil, newTypeError("char->integer: not a character")
	}
	return ctx.NewFixnum(int64(v.Char))
}

func primIntegerToChar(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "integer->char")
	if err != nil {
		return nil, err
	}
	if !IsFixnum(v) {
		return nil, newTypeError("integer->char: not an integer")
	}
	return ctx.NewCharacter(byte(v.Fixnum))
}

func primNumberToString(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "number->string")
	if err != nil {
		return nil, err
	}
	if !IsNumber(v) {
		return nil, newTypeError("number->string: not a number")
	}
	var sb strings.Builder
	if err := Write(&sb, v); err != nil {
		return nil, err
	}
	return ctx.NewString(sb.String())
}

func primStringToNumber(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "string->number")
	if err != nil {
		return nil, err
	}
	if !IsString(v) {
		return nil, newTypeError("string->number: not a string")
	}
	rd := NewReader(ctx, strings.NewReader(v.Str+" "))
	parsed, err := rd.Read()
	if err != nil || !IsNumber(parsed) {
		return ctx.False, nil
	}
	return parsed, nil
}

func primSymbolToString(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "symbol->string")
	if err != nil {
		return nil, err
	}
	if !IsSymbol(v) {
		return nil, newTypeError("symbol->string: not a symbol")
	}
	return ctx.NewString(v.Str)
}

func primStringToSymbol(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "string->symbol")
	if err != nil {
		return nil, err
	}
	if !IsString(v) {
		return nil, newTypeError("string->symbol: not a string")
	}
	return ctx.Intern(v.Str)
}

func primCons(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) != 2 {
		return nil, newArityError("cons: requires exactly two arguments")
	}
	return ctx.Cons(vs[0], vs[1])
}

func primCar(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "car")
	if err != nil {
		return nil, err
	}
	if !IsPair(v) {
		return nil, newTypeError("car: not a pair")
	}
	return v.Car, nil
}

func primCdr(ctx *Context, args *Value) (*Value, error) {
	v, err := onlyArg(args, "cdr")
	if err != nil {
		return nil, err
	}
	if !IsPair(v) {
		return nil, newTypeError("cdr: not a pair")
	}
	return v.Cdr, nil
}

func primSetCar(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) != 2 {
		return nil, newArityError("set-car!: requires exactly two arguments")
	}
	if !IsPair(vs[0]) {
		return nil, newTypeError("set-car!: not a pair")
	}
	vs[0].Car = vs[1]
	return ctx.symOK, nil
}

func primSetCdr(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) != 2 {
		return nil, newArityError("set-cdr!: requires exactly two arguments")
	}
	if !IsPair(vs[0]) {
		return nil, newTypeError("set-cdr!: not a pair")
	}
	vs[0].Cdr = vs[1]
	return ctx.symOK, nil
}

// primList returns its argument list unchanged: evalArgs already conses the
// evaluated operands into a fresh proper list, so (list a b c) is the
// identity function over that list.
func primList(ctx *Context, args *Value) (*Value, error) {
	return args, nil
}

// primEqP implements the identity-equality primitive. Strings compare by
// content rather than pointer identity; every other kind compares by the
// Value pointer itself.
func primEqP(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) != 2 {
		return nil, newArityError("eq?: requires exactly two arguments")
	}
	a, b := vs[0], vs[1]
	if IsString(a) && IsString(b) {
		return boolVal(ctx, a.Str == b.Str), nil
	}
	return boolVal(ctx, a == b), nil
}

// primApply is the non-tail fallback invoked when apply is not itself the
// direct operator of an application (Eval's trampoline intercepts the
// common case directly, see reformApplyArgs in eval.go).
func primApply(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) < 1 {
		return nil, newArityError("apply: requires at least one argument")
	}
	newArgs, err := ctx.reformApplyArgs(args.Cdr)
	if err != nil {
		return nil, err
	}
	return Apply(ctx, vs[0], newArgs)
}

// primEval is the non-tail fallback invoked when eval is not itself the
// direct operator of an application; Eval's trampoline otherwise continues
// directly on the given expression and environment.
func primEval(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) < 1 {
		return nil, newArityError("eval: requires at least one argument")
	}
	env := ctx.GlobalEnv
	if len(vs) >= 2 {
		env = vs[1]
	}
	return Eval(ctx, vs[0], env)
}

func primInteractionEnvironment(ctx *Context, args *Value) (*Value, error) {
	return ctx.GlobalEnv, nil
}

// primNullEnvironment answers both null-environment and environment with a
// single fresh, parentless frame: this interpreter has no separate syntactic
// (keyword-only) environment to distinguish them.
func primNullEnvironment(ctx *Context, args *Value) (*Value, error) {
	return ctx.Extend(ctx.Nil, ctx.Nil, ctx.Nil)
}

func primError(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) == 0 {
		return nil, newArityError("error: requires at least one argument")
	}
	var sb strings.Builder
	if IsString(vs[0]) {
		sb.WriteString(vs[0].Str)
	} else if err := Write(&sb, vs[0]); err != nil {
		return nil, err
	}
	for _, irritant := range vs[1:] {
		sb.WriteString(" ")
		if err := Write(&sb, irritant); err != nil {
			return nil, err
		}
	}
	return nil, newUserError("%s", sb.String())
}

func primGC(ctx *Context, args *Value) (*Value, error) {
	ctx.Heap.Collect()
	return ctx.symOK, nil
}

func primGCStats(ctx *Context, args *Value) (*Value, error) {
	s := ctx.Heap.Stats()
	live, err := ctx.NewFixnum(int64(s.Live))
	if err != nil {
		return nil, err
	}
	threshold, err := ctx.NewFixnum(int64(s.Threshold))
	if err != nil {
		return nil, err
	}
	collections, err := ctx.NewFixnum(int64(s.Collections))
	if err != nil {
		return nil, err
	}
	return ctx.list(live, threshold, collections)
}
