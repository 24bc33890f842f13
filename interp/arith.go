package interp

// Numeric primitives. Promotion follows fixnum < flonum < complex;
// the widest operand present determines the result type. Each operator
// keeps a running value per type rather than promoting eagerly, then
// combines the per-type partials once the operand list is exhausted — the
// same shape sch.c's add_proc/sub_proc/mul_proc/div_proc use, translated to
// explicit Go accumulators instead of a destination-cast-as-you-go union.

func registerArithmetic(ctx *Context) error {
	prims := map[string]Primitive{
		"+":         primAdd,
		"-":         primSub,
		"*":         primMul,
		"/":         primDiv,
		"quotient":  primQuotient,
		"remainder": primRemainder,
		"=":         primNumEq,
		"<":         primLessThan,
		">":         primGreaterThan,
	}
	for name, fn := range prims {
		if err := ctx.definePrimitive(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func primAdd(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	var ires int64
	var dres float64
	var re, im float64
	opType := 0
	for _, a := range vs {
		switch a.Kind {
		case KindFixnum:
			ires += a.Fixnum
		case KindFlonum:
			dres += a.Flonum
			opType = max(opType, 1)
		case KindComplex:
			re += a.Real
			im += a.Imag
			opType = max(opType, 2)
		default:
			return nil, newTypeError("+: wrong argument type %s", a.Kind)
		}
	}
	switch opType {
	case 0:
		return ctx.NewFixnum(ires)
	case 1:
		return ctx.NewFlonum(dres + float64(ires))
	default:
		return ctx.NewComplex(re+float64(ires)+dres, im)
	}
}

func primSub(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) == 0 {
		return nil, newArityError("-: requires at least one argument")
	}
	if len(vs) == 1 {
		switch vs[0].Kind {
		case KindFixnum:
			return ctx.NewFixnum(-vs[0].Fixnum)
		case KindFlonum:
			return ctx.NewFlonum(-vs[0].Flonum)
		case KindComplex:
			return ctx.NewComplex(-vs[0].Real, -vs[0].Imag)
		default:
			return nil, newTypeError("-: wrong argument type %s", vs[0].Kind)
		}
	}

	var ires int64
	var dres float64
	var re, im float64
	opType := 0
	switch vs[0].Kind {
	case KindFixnum:
		ires = vs[0].Fixnum
	case KindFlonum:
		dres = vs[0].Flonum
		opType = max(opType, 1)
	case KindComplex:
		re, im = vs[0].Real, vs[0].Imag
		opType = max(opType, 2)
	default:
		return nil, newTypeError("-: wrong argument type %s", vs[0].Kind)
	}
	for _, a := range vs[1:] {
		switch a.Kind {
		case KindFixnum:
			ires -= a.Fixnum
		case KindFlonum:
			dres -= a.Flonum
			opType = max(opType, 1)
		case KindComplex:
			re -= a.Real
			im -= a.Imag
			opType = max(opType, 2)
		default:
			return nil, newTypeError("-: wrong argument type %s", a.Kind)
		}
	}
	switch opType {
	case 0:
		return ctx.NewFixnum(ires)
	case 1:
		return ctx.NewFlonum(dres + float64(ires))
	default:
		return ctx.NewComplex(re+float64(ires)+dres, im)
	}
}

func primMul(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	ires := int64(1)
	dres := 1.0
	cre, cim := 1.0, 0.0
	opType := 0
	for _, a := range vs {
		switch a.Kind {
		case KindFixnum:
			ires *= a.Fixnum
		case KindFlonum:
			dres *= a.Flonum
			opType = max(opType, 1)
		case KindComplex:
			cre, cim = cre*a.Real-cim*a.Imag, cre*a.Imag+cim*a.Real
			opType = max(opType, 2)
		default:
			return nil, newTypeError("*: wrong argument type %s", a.Kind)
		}
	}
	switch opType {
	case 0:
		return ctx.NewFixnum(ires)
	case 1:
		return ctx.NewFlonum(dres * float64(ires))
	default:
		scalar := dres * float64(ires)
		return ctx.NewComplex(cre*scalar, cim*scalar)
	}
}

func complexInverse(re, im float64) (float64, float64) {
	denom := re*re + im*im
	return re / denom, -im / denom
}

// primDiv preserves a deliberate quirk: division among
// fixnums alone is carried out in double precision and truncated back to a
// fixnum at the end, rather than promoting to an exact rational or a
// flonum.
func primDiv(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) == 0 {
		return nil, newArityError("/: requires at least one argument")
	}
	fres := 1.0
	dres := 1.0
	cre, cim := 1.0, 0.0
	opType := 0
	switch vs[0].Kind {
	case KindFixnum:
		fres = float64(vs[0].Fixnum)
	case KindFlonum:
		dres = vs[0].Flonum
		opType = max(opType, 1)
	case KindComplex:
		cre, cim = vs[0].Real, vs[0].Imag
		opType = max(opType, 2)
	default:
		return nil, newTypeError("/: wrong argument type %s", vs[0].Kind)
	}
	for _, a := range vs[1:] {
		switch a.Kind {
		case KindFixnum:
			fres /= float64(a.Fixnum)
		case KindFlonum:
			dres /= a.Flonum
			opType = max(opType, 1)
		case KindComplex:
			ire, iim := complexInverse(a.Real, a.Imag)
			cre, cim = cre*ire-cim*iim, cre*iim+cim*ire
			opType = max(opType, 2)
		default:
			return nil, newTypeError("/: wrong argument type %s", a.Kind)
		}
	}
	switch opType {
	case 0:
		return ctx.NewFixnum(int64(fres))
	case 1:
		return ctx.NewFlonum(dres * fres)
	default:
		scalar := fres * dres
		return ctx.NewComplex(cre*scalar, cim*scalar)
	}
}

func primQuotient(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) != 2 {
		return nil, newArityError("quotient: requires exactly two arguments")
	}
	a, b := vs[0], vs[1]
	if !IsFixnum(a) || !IsFixnum(b) {
		return nil, newTypeError("quotient: requires integer arguments")
	}
	if b.Fixnum == 0 {
		return nil, newTypeError("quotient: division by zero")
	}
	return ctx.NewFixnum(a.Fixnum / b.Fixnum)
}

func primRemainder(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) != 2 {
		return nil, newArityError("remainder: requires exactly two arguments")
	}
	a, b := vs[0], vs[1]
	if !IsFixnum(a) || !IsFixnum(b) {
		return nil, newTypeError("remainder: requires integer arguments")
	}
	if b.Fixnum == 0 {
		return nil, newTypeError("remainder: division by zero")
	}
	return ctx.NewFixnum(a.Fixnum % b.Fixnum)
}

func primNumEq(ctx *Context, args *Value) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) == 0 {
		return ctx.True, nil
	}
	kind := vs[0].Kind
	if !IsNumber(vs[0]) {
		return nil, newTypeError("=: wrong argument type %s", vs[0].Kind)
	}
	for _, a := range vs[1:] {
		if a.Kind != kind {
			return ctx.False, nil
		}
		var equal bool
		switch kind {
		case KindFixnum:
			equal = a.Fixnum == vs[0].Fixnum
		case KindFlonum:
			equal = a.Flonum == vs[0].Flonum
		case KindComplex:
			equal = a.Real == vs[0].Real && a.Imag == vs[0].Imag
		default:
			return nil, newTypeError("=: wrong argument type %s", kind)
		}
		if !equal {
			return ctx.False, nil
		}
	}
	return ctx.True, nil
}

func asFloat(v *Value) (float64, error) {
	switch v.Kind {
	case KindFixnum:
		return float64(v.Fixnum), nil
	case KindFlonum:
		return v.Flonum, nil
	default:
		return 0, newTypeError("comparison is not defined for this type")
	}
}

func primLessThan(ctx *Context, args *Value) (*Value, error) {
	return chainCompare(ctx, args, func(a, b float64) bool { return a < b })
}

func primGreaterThan(ctx *Context, args *Value) (*Value, error) {
	return chainCompare(ctx, args, func(a, b float64) bool { return a > b })
}

func chainCompare(ctx *Context, args *Value, ok func(a, b float64) bool) (*Value, error) {
	vs := valuesToSlice(args)
	if len(vs) == 0 {
		return ctx.True, nil
	}
	prev, err := asFloat(vs[0])
	if err != nil {
		return nil, err
	}
	for _, a := range vs[1:] {
		next, err := asFloat(a)
		if err != nil {
			return nil, err
		}
		if !ok(prev, next) {
			return ctx.False, nil
		}
		prev = next
	}
	return ctx.True, nil
}
