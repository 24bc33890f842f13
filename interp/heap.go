package interp

// Heap is a mark-and-sweep allocator. It owns every Value ever produced by
// the reader, the evaluator, or primitive registration, tracks them on a
// singly-linked allocation list (the Value.next field), and triggers a full
// collection from Alloc whenever the live count reaches the threshold.
//
// The root set has two parts: a bounded transient root stack, onto which
// every freshly allocated value is pushed before Alloc returns (so a value
// survives any allocation that happens while its caller is still building a
// larger structure from it), and an unbounded permanent root list for the
// handful of objects that must never be collected (the singletons, the
// global environment).
type Heap struct {
	head *Value
	live int

	threshold    int
	initialLimit int

	roots       []*Value
	rootsCap    int
	permanent   []*Value
	collections int
}

const defaultInitialThreshold = 1000
const defaultRootStackCapacity = 2048

// NewHeap constructs a heap with the given initial collection threshold and
// root-stack capacity. A zero value for either selects a built-in default.
func NewHeap(initialThreshold, rootStackCapacity int) *Heap {
	if initialThreshold <= 0 {
		initialThreshold = defaultInitialThreshold
	}
	if rootStackCapacity <= 0 {
		rootStackCapacity = defaultRootStackCapacity
	}
	return &Heap{
		threshold:    initialThreshold,
		initialLimit: initialThreshold,
		rootsCap:     rootStackCapacity,
	}
}

// Alloc returns a freshly allocated, zeroed Value of the given kind, pushed
// onto the root stack. It may run a full collection first if the live count
// has reached the threshold; after a collection the threshold is reset to
// max(initial, 2*live).
func (h *Heap) Alloc(kind Kind) (*Value, error) {
	if h.live == h.threshold {
		h.collect()
		newThreshold := 2 * h.live
		if newThreshold < h.initialLimit {
			newThreshold = h.initialLimit
		}
		h.threshold = newThreshold
	}
	v := &Value{Kind: kind, next: h.head}
	h.head = v
	h.live++
	if err := h.pushRoot(v); err != nil {
		return nil, err
	}
	return v, nil
}

// pushRoot pins v on the transient root stack. Overflowing the bounded
// capacity is a resource-error and is fatal.
func (h *Heap) pushRoot(v *Value) error {
	if len(h.roots) >= h.rootsCap {
		return newResourceError("root stack overflow (capacity %d)", h.rootsCap)
	}
	h.roots = append(h.roots, v)
	return nil
}

// SaveRoots returns a mark that RestoreRoots can later truncate back to. The
// REPL driver (and load) call this before evaluating a top-level expression
// and restore afterwards, so the transient root stack does not grow without
// bound across a long session.
func (h *Heap) SaveRoots() int { return len(h.roots) }

// RestoreRoots truncates the transient root stack back to a mark obtained
// from SaveRoots, discarding roots pushed since.
func (h *Heap) RestoreRoots(mark int) {
	if mark < 0 || mark > len(h.roots) {
		return
	}
	h.roots = h.roots[:mark]
}

// AddPermanentRoot pins v for the lifetime of the heap. Used for the
// singletons (nil, #t, #f, eof) and the global environment.
func (h *Heap) AddPermanentRoot(v *Value) {
	h.permanent = append(h.permanent, v)
}

// Stats is the data backing the gc-stats primitive.
type Stats struct {
	Live        int
	Threshold   int
	Collections int
}

// Stats reports the current live-object count, collection threshold, and
// number of collections run so far.
func (h *Heap) Stats() Stats {
	return Stats{Live: h.live, Threshold: h.threshold, Collections: h.collections}
}

// Collect forces a full mark-sweep collection regardless of the threshold,
// backing the gc primitive.
func (h *Heap) Collect() {
	h.collect()
}

func (h *Heap) collect() {
	for _, r := range h.permanent {
		mark(r)
	}
	for _, r := range h.roots {
		mark(r)
	}
	h.sweep()
	h.collections++
}

func mark(v *Value) {
	if v == nil || v.marked {
		return
	}
	v.marked = true
	switch v.Kind {
	case KindPair:
		mark(v.Car)
		mark(v.Cdr)
	case KindCompound:
		mark(v.Params)
		mark(v.Body)
		mark(v.ProcEnv)
	}
}

func (h *Heap) sweep() {
	var survivors *Value
	live := 0
	for v := h.head; v != nil; {
		next := v.next
		if v.marked {
			v.marked = false
			v.next = survivors
			survivors = v
			live++
		} else {
			releaseValue(v)
		}
		v = next
	}
	h.head = survivors
	h.live = live
}

// releaseValue drops whatever external resource a value not reached by the
// mark phase owns. String and symbol backing bytes are plain Go strings and
// need no explicit release (the host runtime reclaims them); an open port's
// file handle does (collection of an unreachable open port must
// close its handle").
func releaseValue(v *Value) {
	if (v.Kind == KindInputPort || v.Kind == KindOutputPort) && v.Port != nil && !v.Port.Closed {
		if v.Port.Closer != nil {
			_ = v.Port.Closer.Close()
		}
		v.Port.Closed = true
	}
}
