package interp

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestInterp returns an Interpreter whose stdout is captured in the
// returned buffer, for tests that exercise write or the REPL loop.
func newTestInterp(t *testing.T) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	i, err := New(Options{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out})
	require.NoError(t, err)
	return i, &out
}

func evalToString(t *testing.T, src string) string {
	t.Helper()
	i, _ := newTestInterp(t)
	v, err := i.EvalString(src)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))
	return buf.String()
}

func TestEvalString_SelfEvaluating(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"fixnum", "42", "42"},
		{"negative fixnum", "-7", "-7"},
		{"boolean true", "#t", "#t"},
		{"boolean false", "#f", "#f"},
		{"string", `"hello"`, `"hello"`},
		{"character", `#\a`, `#\a`},
		{"quoted symbol", "'foo", "foo"},
		{"quoted list", "'(1 2 3)", "(1 2 3)"},
		{"empty list is self-quoting via quote", "'()", "()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalToString(t, tt.src))
		})
	}
}

func TestEvalString_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"add fixnums", "(+ 1 2 3)", "6"},
		{"add promotes to flonum", "(+ 1 2.5)", "3.500000"},
		{"subtract", "(- 10 3 2)", "5"},
		{"negate single argument", "(- 5)", "-5"},
		{"negate single flonum", "(- 2.5)", "-2.500000"},
		{"multiply", "(* 2 3 4)", "24"},
		{"divide truncates among fixnums", "(/ 7 2)", "3"},
		{"divide promotes to flonum", "(/ 7.0 2)", "3.500000"},
		{"quotient", "(quotient 7 2)", "3"},
		{"remainder", "(remainder 7 2)", "1"},
		{"equal across fixnums", "(= 1 1 1)", "#t"},
		{"equal fails on mismatched kind", "(= 1 1.0)", "#f"},
		{"less than chain", "(< 1 2 3)", "#t"},
		{"less than chain fails", "(< 1 3 2)", "#f"},
		{"greater than chain", "(> 3 2 1)", "#t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalToString(t, tt.src))
		})
	}
}

func TestEvalString_DivisionByZeroDoesNotError(t *testing.T) {
	// All-fixnum division is carried out in double precision and
	// truncated back to a fixnum at the end (see primDiv), so dividing by
	// zero behaves like C's silent double-precision division by zero
	// rather than raising a language-level error.
	i, _ := newTestInterp(t)
	v, err := i.EvalString("(/ 1 0)")
	require.NoError(t, err)
	assert.True(t, IsFixnum(v))
}

func TestEvalString_SpecialForms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"if true branch", "(if #t 1 2)", "1"},
		{"if false branch", "(if #f 1 2)", "2"},
		{"if with no alternative and false test", "(if #f 1)", "#f"},
		{"begin returns last", "(begin 1 2 3)", "3"},
		{"cond first match", "(cond (#f 1) (#t 2) (else 3))", "2"},
		{"cond else fallback", "(cond (#f 1) (#f 2) (else 3))", "3"},
		{"and short circuits", "(and 1 #f 3)", "#f"},
		{"and returns last on success", "(and 1 2 3)", "3"},
		{"or returns first truthy", "(or #f #f 3)", "3"},
		{"or returns #f when all fail", "(or #f #f)", "#f"},
		{"let binds locals", "(let ((x 1) (y 2)) (+ x y))", "3"},
		{"lambda application", "((lambda (x y) (+ x y)) 3 4)", "7"},
		{"define then reference", "(define x 10) x", "10"},
		{"define procedure shorthand", "(define (sq x) (* x x)) (sq 5)", "25"},
		{"set! mutates existing binding", "(define x 1) (set! x 2) x", "2"},
		{"falsity rule: zero is truthy", "(if 0 1 2)", "1"},
		{"falsity rule: empty string is truthy", `(if "" 1 2)`, "1"},
		{"falsity rule: nil is truthy", "(if '() 1 2)", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalToString(t, tt.src))
		})
	}
}

func TestEvalString_VariadicLambda(t *testing.T) {
	src := "(define (f . args) args) (f 1 2 3)"
	assert.Equal(t, "(1 2 3)", evalToString(t, src))
}

func TestEvalString_Recursion(t *testing.T) {
	src := `
		(define (fact n)
		  (if (= n 0) 1 (* n (fact (- n 1)))))
		(fact 10)
	`
	assert.Equal(t, "3628800", evalToString(t, src))
}

func TestEvalString_TailCallDoesNotGrowStack(t *testing.T) {
	src := `
		(define (loop n acc)
		  (if (= n 0) acc (loop (- n 1) (+ acc 1))))
		(loop 200000 0)
	`
	assert.Equal(t, "200000", evalToString(t, src))
}

func TestEvalString_Pairs(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"cons", "(cons 1 2)", "(1 . 2)"},
		{"car", "(car '(1 2 3))", "1"},
		{"cdr", "(cdr '(1 2 3))", "(2 3)"},
		{"list", "(list 1 2 3)", "(1 2 3)"},
		{"set-car! mutates", "(define p (cons 1 2)) (set-car! p 9) p", "(9 . 2)"},
		{"set-cdr! mutates", "(define p (cons 1 2)) (set-cdr! p 9) p", "(1 . 9)"},
		{"dotted pair literal", "'(1 . 2)", "(1 . 2)"},
		{"improper list literal", "'(1 2 . 3)", "(1 2 . 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalToString(t, tt.src))
		})
	}
}

func TestEvalString_Equality(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"eq? on identical symbols", "(eq? 'a 'a)", "#t"},
		{"eq? on distinct symbols", "(eq? 'a 'b)", "#f"},
		// Preserved quirk: strings compare by content under eq?, not by
		// the identity of the two allocations.
		{"eq? on equal strings compares content", `(eq? "hi" "hi")`, "#t"},
		{"eq? on different strings", `(eq? "hi" "bye")`, "#f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalToString(t, tt.src))
		})
	}
}

func TestEvalString_ApplyAndEval(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"apply spreads final list", "(apply + '(1 2 3))", "6"},
		{"apply with leading args", "(apply + 1 2 '(3 4))", "10"},
		{"eval evaluates a quoted form", "(eval '(+ 1 2))", "3"},
		{"eval against interaction-environment", "(eval '(+ 1 2) (interaction-environment))", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalToString(t, tt.src))
		})
	}
}

func TestEvalString_UnboundVariable(t *testing.T) {
	i, _ := newTestInterp(t)
	_, err := i.EvalString("not-defined-anywhere")
	require.Error(t, err)
	var ierr *InterpError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrUnboundVariable, ierr.Kind)
}

func TestEvalString_TypeError(t *testing.T) {
	i, _ := newTestInterp(t)
	_, err := i.EvalString("(car 5)")
	require.Error(t, err)
	var ierr *InterpError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrType, ierr.Kind)
}

func TestEvalString_UserError(t *testing.T) {
	i, _ := newTestInterp(t)
	_, err := i.EvalString(`(error "boom" 1 2)`)
	require.Error(t, err)
	var ierr *InterpError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrUser, ierr.Kind)
	assert.Contains(t, ierr.Msg, "boom")
}

func TestEvalString_ConversionsAndPredicates(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"char->integer", `(char->integer #\A)`, "65"},
		{"integer->char", "(integer->char 65)", `#\A`},
		{"symbol->string", "(symbol->string 'abc)", `"abc"`},
		{"string->symbol", `(eq? (string->symbol "abc") 'abc)`, "#t"},
		{"number->string", "(number->string 42)", `"42"`},
		{"string->number success", `(string->number "42")`, "42"},
		{"string->number failure", `(string->number "nope")`, "#f"},
		{"null? on empty list", "(null? '())", "#t"},
		{"pair? on cons", "(pair? (cons 1 2))", "#t"},
		{"procedure? on primitive", "(procedure? car)", "#t"},
		{"procedure? on lambda", "(procedure? (lambda (x) x))", "#t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalToString(t, tt.src))
		})
	}
}

func TestEvalString_GC(t *testing.T) {
	i, _ := newTestInterp(t)
	_, err := i.EvalString("(gc)")
	require.NoError(t, err)
	v, err := i.EvalString("(gc-stats)")
	require.NoError(t, err)
	assert.True(t, IsPair(v))
	assert.Equal(t, 3, ListLen(v))
}

func TestREPL_EchoesResultsThenStopsOnFirstError(t *testing.T) {
	i, out := newTestInterp(t)
	in := strings.NewReader("(+ 1 2)\n(car '())\n(+ 4 5)\n")
	err := i.REPL(in, "")

	require.Error(t, err)
	var ierr *InterpError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrType, ierr.Kind)

	s := out.String()
	assert.Contains(t, s, "3")
	assert.Contains(t, s, "*** ")
	// The error on (car '()) is fatal: REPL must not read the expression
	// that follows it, and must never reach "Goodbye".
	assert.NotContains(t, s, "9")
	assert.NotContains(t, s, "Goodbye")
}

func TestREPL_PrintsGoodbyeAndReturnsNilOnCleanEOF(t *testing.T) {
	i, out := newTestInterp(t)
	in := strings.NewReader("(+ 1 2)\n")
	err := i.REPL(in, "")

	require.NoError(t, err)
	s := out.String()
	assert.Contains(t, s, "3")
	assert.Contains(t, s, "Goodbye")
}

func TestInterpreter_Load(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/prog.scm"
	require.NoError(t, os.WriteFile(path, []byte("(define (double x) (* x 2))\n"), 0644))

	i, _ := newTestInterp(t)
	require.NoError(t, i.Load(path))

	v, err := i.EvalString("(double 21)")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))
	assert.Equal(t, "42", buf.String())
}
