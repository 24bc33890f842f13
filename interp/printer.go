package interp

import (
	"fmt"
	"io"
)

// Write renders v to w in the form the reader can parse back.
func Write(w io.Writer, v *Value) error {
	switch v.Kind {
	case KindNil:
		_, err := io.WriteString(w, "()")
		return err
	case KindBoolean:
		if v.Bool {
			_, err := io.WriteString(w, "#t")
			return err
		}
		_, err := io.WriteString(w, "#f")
		return err
	case KindSymbol:
		_, err := io.WriteString(w, v.Str)
		return err
	case KindFixnum:
		_, err := fmt.Fprintf(w, "%d", v.Fixnum)
		return err
	case KindFlonum:
		_, err := fmt.Fprintf(w, "%f", v.Flonum)
		return err
	case KindComplex:
		if v.Imag == 0.0 {
			_, err := fmt.Fprintf(w, "%f", v.Real)
			return err
		}
		_, err := fmt.Fprintf(w, "#C(%f %f)", v.Real, v.Imag)
		return err
	case KindString:
		return writeString(w, v.Str)
	case KindCharacter:
		return writeCharacter(w, v.Char)
	case KindPair:
		if _, err := io.WriteString(w, "("); err != nil {
			return err
		}
		if err := writePair(w, v); err != nil {
			return err
		}
		_, err := io.WriteString(w, ")")
		return err
	case KindPrimitive:
		_, err := fmt.Fprintf(w, "#<primitive-procedure: %p>", v)
		return err
	case KindCompound:
		_, err := fmt.Fprintf(w, "#<compound-procedure: %p>", v)
		return err
	case KindInputPort:
		_, err := io.WriteString(w, "#<input-port>")
		return err
	case KindOutputPort:
		_, err := io.WriteString(w, "#<output-port>")
		return err
	case KindEOF:
		_, err := io.WriteString(w, "#<eof>")
		return err
	default:
		return newTypeError("cannot write unknown type")
	}
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, `"`); err != nil {
		return err
	}
	for _, c := range []byte(s) {
		var err error
		switch c {
		case '\n':
			_, err = io.WriteString(w, `\n`)
		case '\\':
			_, err = io.WriteString(w, `\\`)
		case '"':
			_, err = io.WriteString(w, `\"`)
		default:
			_, err = w.Write([]byte{c})
		}
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `"`)
	return err
}

func writeCharacter(w io.Writer, c byte) error {
	if _, err := io.WriteString(w, `#\`); err != nil {
		return err
	}
	switch c {
	case '\n':
		_, err := io.WriteString(w, "newl")
		return err
	case ' ':
		_, err := io.WriteString(w, "space")
		return err
	default:
		_, err := w.Write([]byte{c})
		return err
	}
}

// writePair writes the cars of the list rooted at pair separated by spaces,
// terminating at a nil cdr or printing " . tail" for an improper list; the
// enclosing parens are the caller's responsibility.
func writePair(w io.Writer, pair *Value) error {
	if err := Write(w, pair.Car); err != nil {
		return err
	}
	switch {
	case IsPair(pair.Cdr):
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		return writePair(w, pair.Cdr)
	case IsNil(pair.Cdr):
		return nil
	default:
		if _, err := io.WriteString(w, " . "); err != nil {
			return err
		}
		return Write(w, pair.Cdr)
	}
}
