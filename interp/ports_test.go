package interp

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts_OpenWriteCloseThenReadBack(t *testing.T) {
	i, _ := newTestInterp(t)
	path := t.TempDir() + "/data.txt"

	_, err := i.EvalString(`(define out (open-output-port "` + path + `"))`)
	require.NoError(t, err)
	_, err = i.EvalString(`(write-char #\A out)`)
	require.NoError(t, err)
	_, err = i.EvalString(`(write 42 out)`)
	require.NoError(t, err)
	_, err = i.EvalString(`(close-output-port out)`)
	require.NoError(t, err)

	_, err = i.EvalString(`(define in (open-input-port "` + path + `"))`)
	require.NoError(t, err)
	c, err := i.EvalString(`(read-char in)`)
	require.NoError(t, err)
	assert.True(t, IsCharacter(c))
	assert.Equal(t, byte('A'), c.Char)

	n, err := i.EvalString(`(read in)`)
	require.NoError(t, err)
	assert.True(t, IsFixnum(n))
	assert.Equal(t, int64(42), n.Fixnum)

	_, err = i.EvalString(`(close-input-port in)`)
	require.NoError(t, err)
}

func TestPorts_PeekCharDoesNotConsume(t *testing.T) {
	i, _ := newTestInterp(t)
	path := t.TempDir() + "/peek.txt"
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := i.EvalString(`(define in (open-input-port "` + path + `"))`)
	require.NoError(t, err)

	peeked, err := i.EvalString(`(peek-char in)`)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), peeked.Char)

	read, err := i.EvalString(`(read-char in)`)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), read.Char)

	eof, err := i.EvalString(`(read-char in)`)
	require.NoError(t, err)
	assert.True(t, IsEOF(eof))
}

func TestPorts_WriteDefaultsToConfiguredStdout(t *testing.T) {
	var out bytes.Buffer
	i, err := New(Options{Stdout: &out})
	require.NoError(t, err)
	_, err = i.EvalString(`(write "hi")`)
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, out.String())
}

func TestPorts_LoadPrintsProgramLoadedAndReturnsLastValue(t *testing.T) {
	i, out := newTestInterp(t)
	path := t.TempDir() + "/prog.scm"
	require.NoError(t, os.WriteFile(path, []byte("(define (square x) (* x x))\n(square 6)\n"), 0644))

	v, err := i.EvalString(`(load "` + path + `")`)
	require.NoError(t, err)
	assert.True(t, IsFixnum(v))
	assert.Equal(t, int64(36), v.Fixnum)
	assert.Contains(t, out.String(), "program-loaded")

	square, err := i.EvalString("(square 7)")
	require.NoError(t, err)
	assert.Equal(t, int64(49), square.Fixnum)
}

func TestPorts_LoadOfEmptyFileReturnsOK(t *testing.T) {
	i, out := newTestInterp(t)
	path := t.TempDir() + "/empty.scm"
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	v, err := i.EvalString(`(load "` + path + `")`)
	require.NoError(t, err)
	assert.True(t, IsSymbol(v))
	assert.Contains(t, out.String(), "program-loaded")
}
