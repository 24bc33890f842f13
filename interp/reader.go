package interp

import (
	"bufio"
	"io"
)

const maxStringLen = 999

// Reader is a recursive-descent parser over a byte stream, producing values
// allocated on ctx's heap.
type Reader struct {
	ctx *Context
	r   *bufio.Reader
}

// NewReader wraps r in a buffered byte reader bound to ctx's heap.
func NewReader(ctx *Context, r io.Reader) *Reader {
	return &Reader{ctx: ctx, r: bufio.NewReader(r)}
}

// Read parses one top-level datum. At end of input it returns the
// eof-object with a nil error.
func (rd *Reader) Read() (*Value, error) {
	return rd.read(true)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isInitial(c byte) bool {
	switch c {
	case '*', '/', '>', '<', '=', '?', '!':
		return true
	default:
		return isAlpha(c)
	}
}

// isDelimiter matches the set of bytes that may terminate a token.
// EOF also delimits, handled separately by callers since it is not a byte.
func isDelimiter(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == '"' || c == ';'
}

func (rd *Reader) peekByte() (byte, error) {
	b, err := rd.r.ReadByte()
	if err != nil {
		return 0, err
	}
	_ = rd.r.UnreadByte()
	return b, nil
}

func (rd *Reader) eatWhitespace() error {
	for {
		c, err := rd.r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if isSpace(c) {
			continue
		}
		if c == ';' {
			for {
				c, err := rd.r.ReadByte()
				if err == io.EOF || c == '\n' {
					break
				}
				if err != nil {
					return err
				}
			}
			continue
		}
		return rd.r.UnreadByte()
	}
}

func (rd *Reader) expectDelimiter() error {
	c, err := rd.peekByte()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if !isDelimiter(c) {
		return newReadError("token not followed by a delimiter, found %q", c)
	}
	return nil
}

// read parses one datum. top selects the end-of-input behavior required by
// the eof-object at the top level, a read-error for a nested read.
func (rd *Reader) read(top bool) (*Value, error) {
	if err := rd.eatWhitespace(); err != nil {
		return nil, err
	}
	c, err := rd.r.ReadByte()
	if err == io.EOF {
		if top {
			return rd.ctx.EOF, nil
		}
		return nil, newReadError("unexpected end of input")
	}
	if err != nil {
		return nil, err
	}

	switch {
	case c == '#':
		return rd.readHash()
	case isDigit(c) || (c == '-' && rd.peekIsDigit()):
		return rd.readNumber(c)
	case isInitial(c) || ((c == '+' || c == '-') && rd.peekIsDelimiterOrEOF()):
		return rd.readSymbol(c)
	case c == '"':
		return rd.readString()
	case c == '(':
		return rd.readPair()
	case c == '\'':
		return rd.readQuote()
	default:
		return nil, newReadError("unexpected character %q", c)
	}
}

func (rd *Reader) peekIsDigit() bool {
	c, err := rd.peekByte()
	return err == nil && isDigit(c)
}

func (rd *Reader) peekIsDelimiterOrEOF() bool {
	c, err := rd.peekByte()
	if err == io.EOF {
		return true
	}
	return err == nil && isDelimiter(c)
}

func (rd *Reader) readQuote() (*Value, error) {
	datum, err := rd.read(false)
	if err != nil {
		return nil, err
	}
	quoteSym, err := rd.ctx.Intern("quote")
	if err != nil {
		return nil, err
	}
	return rd.ctx.list(quoteSym, datum)
}

func (rd *Reader) readHash() (*Value, error) {
	c, err := rd.r.ReadByte()
	if err == io.EOF {
		return nil, newReadError("incomplete # literal")
	}
	if err != nil {
		return nil, err
	}
	switch c {
	case 't':
		return rd.ctx.True, nil
	case 'f':
		return rd.ctx.False, nil
	case '\\':
		return rd.readCharacter()
	case 'c':
		return rd.readComplex()
	default:
		return nil, newReadError("unknown # literal %q", c)
	}
}

func (rd *Reader) readCharacter() (*Value, error) {
	c, err := rd.r.ReadByte()
	if err == io.EOF {
		return nil, newReadError("incomplete character literal")
	}
	if err != nil {
		return nil, err
	}
	switch c {
	case 's':
		if next, _ := rd.peekByte(); next == 'p' {
			if err := rd.eatExpected("pace"); err != nil {
				return nil, err
			}
			if err := rd.expectDelimiter(); err != nil {
				return nil, err
			}
			return rd.ctx.NewCharacter(' ')
		}
	case 'n':
		if next, _ := rd.peekByte(); next == 'e' {
			// Only "#\newl", never the full "#\newline" — preserved
			// verbatim rather than generalized to the full word.
			if err := rd.eatExpected("ewl"); err != nil {
				return nil, err
			}
			if err := rd.expectDelimiter(); err != nil {
				return nil, err
			}
			return rd.ctx.NewCharacter('\n')
		}
	}
	if err := rd.expectDelimiter(); err != nil {
		return nil, err
	}
	return rd.ctx.NewCharacter(c)
}

func (rd *Reader) eatExpected(s string) error {
	for i := 0; i < len(s); i++ {
		c, err := rd.r.ReadByte()
		if err != nil || c != s[i] {
			return newReadError("expected %q in character literal", s)
		}
	}
	return nil
}

func (rd *Reader) readComplex() (*Value, error) {
	c, err := rd.r.ReadByte()
	if err != nil || c != '(' {
		return nil, newReadError("invalid complex number literal")
	}
	if err := rd.eatWhitespace(); err != nil {
		return nil, err
	}
	re, err := rd.readComplexPart()
	if err != nil {
		return nil, err
	}
	if err := rd.eatWhitespace(); err != nil {
		return nil, err
	}
	im, err := rd.readComplexPart()
	if err != nil {
		return nil, err
	}
	c, err = rd.r.ReadByte()
	if err != nil || c != ')' {
		return nil, newReadError("missing closing paren on complex number")
	}
	return rd.ctx.NewComplex(re, im)
}

func (rd *Reader) readComplexPart() (float64, error) {
	c, err := rd.peekByte()
	if err != nil || !isDigit(c) {
		return 0, newReadError("complex number part must be a non-negative number")
	}
	b, _ := rd.r.ReadByte()
	num, err := rd.readNumber(b)
	if err != nil {
		return 0, err
	}
	switch num.Kind {
	case KindFixnum:
		return float64(num.Fixnum), nil
	case KindFlonum:
		return num.Flonum, nil
	default:
		return 0, newReadError("invalid number type in complex literal")
	}
}

func (rd *Reader) readNumber(first byte) (*Value, error) {
	sign := int64(1)
	c := first
	if c == '-' {
		sign = -1
		var err error
		c, err = rd.r.ReadByte()
		if err != nil {
			return nil, newReadError("incomplete number literal")
		}
	}
	var num int64
	for isDigit(c) {
		num = num*10 + int64(c-'0')
		var err error
		c, err = rd.r.ReadByte()
		if err == io.EOF {
			c = 0
			break
		}
		if err != nil {
			return nil, err
		}
	}

	isFlo := false
	mant := 0.0
	mantLen := 1
	if c == '.' {
		isFlo = true
		for {
			var err error
			c, err = rd.r.ReadByte()
			if err == io.EOF {
				c = 0
				break
			}
			if err != nil {
				return nil, err
			}
			if !isDigit(c) {
				break
			}
			mant += float64(c-'0') / pow10(mantLen)
			mantLen++
		}
	}

	if c != 0 {
		if err := rd.r.UnreadByte(); err != nil {
			return nil, err
		}
	}
	peeked, err := rd.peekByte()
	atEOF := err == io.EOF
	if !atEOF && err != nil {
		return nil, err
	}
	if !atEOF && !isDelimiter(peeked) {
		return nil, newReadError("number not followed by a delimiter")
	}

	if isFlo {
		return rd.ctx.NewFlonum(float64(sign) * (float64(num) + mant))
	}
	return rd.ctx.NewFixnum(sign * num)
}

func pow10(n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}

func (rd *Reader) readSymbol(first byte) (*Value, error) {
	buf := []byte{first}
	for {
		c, err := rd.r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isInitial(c) || isDigit(c) || c == '+' || c == '-' {
			buf = append(buf, c)
			continue
		}
		if err := rd.r.UnreadByte(); err != nil {
			return nil, err
		}
		break
	}
	if err := rd.expectDelimiter(); err != nil {
		return nil, newReadError("symbol not followed by a delimiter")
	}
	return rd.ctx.Intern(string(buf))
}

func (rd *Reader) readString() (*Value, error) {
	var buf []byte
	for {
		c, err := rd.r.ReadByte()
		if err == io.EOF {
			return nil, newReadError("unterminated string literal")
		}
		if err != nil {
			return nil, err
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			esc, err := rd.r.ReadByte()
			if err != nil {
				return nil, newReadError("unterminated string literal")
			}
			switch esc {
			case 'n':
				c = '\n'
			case '\\':
				c = '\\'
			case '"':
				c = '"'
			default:
				c = esc
			}
		}
		if len(buf) >= maxStringLen {
			return nil, newReadError("string too long, maximum length is %d", maxStringLen)
		}
		buf = append(buf, c)
	}
	return rd.ctx.NewString(string(buf))
}

// readPair parses the contents of a list after the opening '(' has been
// consumed, including the dotted-pair (improper list) form.
func (rd *Reader) readPair() (*Value, error) {
	if err := rd.eatWhitespace(); err != nil {
		return nil, err
	}
	c, err := rd.r.ReadByte()
	if err != nil {
		return nil, newReadError("unterminated list")
	}
	if c == ')' {
		return rd.ctx.Nil, nil
	}
	if err := rd.r.UnreadByte(); err != nil {
		return nil, err
	}

	carObj, err := rd.read(false)
	if err != nil {
		return nil, err
	}

	if err := rd.eatWhitespace(); err != nil {
		return nil, err
	}
	c, err = rd.r.ReadByte()
	if err != nil {
		return nil, newReadError("unterminated list")
	}
	if c == '.' {
		next, err := rd.peekByte()
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err != io.EOF && !isDelimiter(next) {
			return nil, newReadError("'.' not followed by a delimiter")
		}
		cdrObj, err := rd.read(false)
		if err != nil {
			return nil, err
		}
		if err := rd.eatWhitespace(); err != nil {
			return nil, err
		}
		c, err = rd.r.ReadByte()
		if err != nil || c != ')' {
			return nil, newReadError("missing closing paren after dotted tail")
		}
		return rd.ctx.Cons(carObj, cdrObj)
	}
	if err := rd.r.UnreadByte(); err != nil {
		return nil, err
	}
	cdrObj, err := rd.readPair()
	if err != nil {
		return nil, err
	}
	return rd.ctx.Cons(carObj, cdrObj)
}
