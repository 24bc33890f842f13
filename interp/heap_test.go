package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeap_CollectSweepsUnreachable(t *testing.T) {
	h := NewHeap(10, 0)

	root, err := h.Alloc(KindFixnum)
	require.NoError(t, err)
	root.Fixnum = 1
	h.AddPermanentRoot(root)
	mark := h.SaveRoots()

	// Allocate a value with nothing else pointing at it, then drop it from
	// the transient root stack before collecting.
	_, err = h.Alloc(KindFixnum)
	require.NoError(t, err)
	h.RestoreRoots(mark)

	before := h.Stats().Live
	h.Collect()
	after := h.Stats().Live

	assert.Equal(t, before-1, after)
	assert.Equal(t, 1, after)
}

func TestHeap_CollectKeepsReachableGraph(t *testing.T) {
	h := NewHeap(10, 0)

	a, err := h.Alloc(KindFixnum)
	require.NoError(t, err)
	a.Fixnum = 1
	b, err := h.Alloc(KindFixnum)
	require.NoError(t, err)
	b.Fixnum = 2

	pair, err := h.Alloc(KindPair)
	require.NoError(t, err)
	pair.Car, pair.Cdr = a, b
	h.AddPermanentRoot(pair)

	h.Collect()

	assert.Equal(t, 3, h.Stats().Live)
	assert.Equal(t, int64(1), pair.Car.Fixnum)
	assert.Equal(t, int64(2), pair.Cdr.Fixnum)
}

func TestHeap_AllocTriggersCollectionAtThreshold(t *testing.T) {
	h := NewHeap(4, 0)
	for i := 0; i < 4; i++ {
		_, err := h.Alloc(KindFixnum)
		require.NoError(t, err)
		h.RestoreRoots(0)
	}
	before := h.Stats().Collections
	_, err := h.Alloc(KindFixnum)
	require.NoError(t, err)
	assert.Greater(t, h.Stats().Collections, before)
}

func TestHeap_RootStackOverflowIsResourceError(t *testing.T) {
	h := NewHeap(0, 2)
	_, err := h.Alloc(KindFixnum)
	require.NoError(t, err)
	_, err = h.Alloc(KindFixnum)
	require.NoError(t, err)

	_, err = h.Alloc(KindFixnum)
	require.Error(t, err)
	var ierr *InterpError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrResource, ierr.Kind)
}

func TestHeap_SaveRestoreRoots(t *testing.T) {
	h := NewHeap(0, 0)
	mark := h.SaveRoots()
	_, err := h.Alloc(KindFixnum)
	require.NoError(t, err)
	assert.Greater(t, h.SaveRoots(), mark)
	h.RestoreRoots(mark)
	assert.Equal(t, mark, h.SaveRoots())
}
