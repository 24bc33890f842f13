package interp

// valuesToSlice flattens the proper-list prefix of v into a Go slice,
// stopping at the first non-pair cdr. Primitives use it to validate arity
// by len() before indexing, rather than walking cars/cdrs by hand.
func valuesToSlice(v *Value) []*Value {
	var out []*Value
	for IsPair(v) {
		out = append(out, v.Car)
		v = v.Cdr
	}
	return out
}

// listFromSlice conses vs into a proper list, right to left.
func listFromSlice(ctx *Context, vs []*Value) (*Value, error) {
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
