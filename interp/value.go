package interp

import (
	"bufio"
	"io"
)

// Kind discriminates the tagged union of runtime values. Every Value carries
// exactly one Kind; the fields that are meaningful for it depend on Kind the
// same way a single struct with a kind field can carry a wide set of
// conditionally-used fields rather than a Go interface sum type.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindFixnum
	KindFlonum
	KindComplex
	KindCharacter
	KindString
	KindSymbol
	KindPair
	KindPrimitive
	KindCompound
	KindInputPort
	KindOutputPort
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindFixnum:
		return "fixnum"
	case KindFlonum:
		return "flonum"
	case KindComplex:
		return "complex"
	case KindCharacter:
		return "character"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindPair:
		return "pair"
	case KindPrimitive:
		return "primitive-procedure"
	case KindCompound:
		return "compound-procedure"
	case KindInputPort:
		return "input-port"
	case KindOutputPort:
		return "output-port"
	case KindEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Primitive is the shape every built-in callable implements: it receives the
// already-evaluated argument list (a pair/nil chain) and returns a value or
// an error drawn from the taxonomy in errors.go.
type Primitive func(ctx *Context, args *Value) (*Value, error)

// Port is the opaque handle behind input-port/output-port values. It owns
// the external byte stream and is released either by an explicit close
// primitive or by the collector sweeping an unreachable open port.
type Port struct {
	Name   string
	Reader *bufio.Reader
	Writer io.Writer
	Closer io.Closer
	Closed bool
}

// Value is a single heap allocation. Fields outside the ones implied by Kind
// are zero and unused; this mirrors one flat
// struct, a kind discriminant, many kind-specific fields) rather than a
// Go interface{} per-variant hierarchy, since the heap/GC in this package
// needs one uniform allocation shape to walk and mark.
type Value struct {
	Kind Kind

	// heap bookkeeping, invisible to Scheme code
	marked bool
	next   *Value

	Bool    bool
	Fixnum  int64
	Flonum  float64
	Real    float64
	Imag    float64
	Char    byte
	Str     string // backing bytes for STRING and SYMBOL alike

	Car *Value
	Cdr *Value

	PrimName string
	Prim     Primitive

	Params  *Value // compound procedure: symbol list or improper rest list
	Body    *Value // compound procedure: list of body expressions
	ProcEnv *Value // compound procedure: captured environment

	Port *Port
}

// IsNil reports whether v is the canonical empty-list singleton.
func IsNil(v *Value) bool { return v.Kind == KindNil }

// IsPair reports whether v is a cons cell.
func IsPair(v *Value) bool { return v.Kind == KindPair }

// IsSymbol reports whether v is an interned symbol.
func IsSymbol(v *Value) bool { return v.Kind == KindSymbol }

// IsString reports whether v is a string.
func IsString(v *Value) bool { return v.Kind == KindString }

// IsBoolean reports whether v is one of the two boolean singletons.
func IsBoolean(v *Value) bool { return v.Kind == KindBoolean }

// IsFixnum reports whether v is a fixed-width integer.
func IsFixnum(v *Value) bool { return v.Kind == KindFixnum }

// IsFlonum reports whether v is a double-precision float.
func IsFlonum(v *Value) bool { return v.Kind == KindFlonum }

// IsComplex reports whether v is a complex-double pair.
func IsComplex(v *Value) bool { return v.Kind == KindComplex }

// IsNumber reports whether v is any of the three numeric kinds.
func IsNumber(v *Value) bool {
	return v.Kind == KindFixnum || v.Kind == KindFlonum || v.Kind == KindComplex
}

// IsCharacter reports whether v is a character.
func IsCharacter(v *Value) bool { return v.Kind == KindCharacter }

// IsProcedure reports whether v is callable (primitive or compound).
func IsProcedure(v *Value) bool { return v.Kind == KindPrimitive || v.Kind == KindCompound }

// IsEOF reports whether v is the canonical end-of-input singleton.
func IsEOF(v *Value) bool { return v.Kind == KindEOF }

// IsTrue implements the interpreter's falsity rule: #f alone is false, every
// other value (0, nil, the empty string included) is truthy.
func IsTrue(v *Value) bool {
	return !(v.Kind == KindBoolean && !v.Bool)
}

// IsTaggedList reports whether exp is a pair whose car is the given
// (interned) symbol, the test the evaluator uses to recognize special forms.
func IsTaggedList(exp *Value, tag *Value) bool {
	return IsPair(exp) && exp.Car.Kind == KindSymbol && exp.Car == tag
}

func cadr(v *Value) *Value   { return v.Cdr.Car }
func caddr(v *Value) *Value  { return v.Cdr.Cdr.Car }
func cdddr(v *Value) *Value  { return v.Cdr.Cdr.Cdr }
func cadddr(v *Value) *Value { return v.Cdr.Cdr.Cdr.Car }

// ListLen counts the proper-list length of v, stopping at the first non-pair
// cdr. Used by primitives that validate arity before indexing arguments.
func ListLen(v *Value) int {
	n := 0
	for IsPair(v) {
		n++
		v = v.Cdr
	}
	return n
}
