package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArith_ComplexPromotion(t *testing.T) {
	i, _ := newTestInterp(t)

	v, err := i.EvalString("(+ 1 #c(2 3))")
	require.NoError(t, err)
	require.True(t, IsComplex(v))
	assert.Equal(t, 3.0, v.Real)
	assert.Equal(t, 3.0, v.Imag)

	v, err = i.EvalString("(* #c(1 2) #c(3 4))")
	require.NoError(t, err)
	require.True(t, IsComplex(v))
	// (1+2i)(3+4i) = (3-8) + (4+6)i = -5+10i
	assert.InDelta(t, -5.0, v.Real, 1e-9)
	assert.InDelta(t, 10.0, v.Imag, 1e-9)
}

func TestArith_ComplexDivision(t *testing.T) {
	i, _ := newTestInterp(t)
	v, err := i.EvalString("(/ #c(1 0) #c(0 1))")
	require.NoError(t, err)
	require.True(t, IsComplex(v))
	// 1 / i = -i
	assert.InDelta(t, 0.0, v.Real, 1e-9)
	assert.InDelta(t, -1.0, v.Imag, 1e-9)
}

func TestArith_NumEqRejectsMismatchedKinds(t *testing.T) {
	i, _ := newTestInterp(t)
	v, err := i.EvalString("(= #c(1 0) 1)")
	require.NoError(t, err)
	assert.False(t, IsTrue(v) && v.Kind == KindBoolean && v.Bool)
}

func TestArith_ComparisonRejectsComplex(t *testing.T) {
	i, _ := newTestInterp(t)
	_, err := i.EvalString("(< #c(1 0) 2)")
	require.Error(t, err)
	var ierr *InterpError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrType, ierr.Kind)
}

func TestArith_WidestOperandWinsRegardlessOfOrder(t *testing.T) {
	i, _ := newTestInterp(t)
	v, err := i.EvalString("(+ #c(1 1) 2 3.0)")
	require.NoError(t, err)
	require.True(t, IsComplex(v))
	assert.False(t, math.IsNaN(v.Real))
}
