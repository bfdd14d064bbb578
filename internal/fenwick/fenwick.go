// Package fenwick implements a binary indexed tree over float64 weights
// with logarithmic point updates, totals and cumulative search. It backs
// rate bookkeeping and weighted selection in the event loop.
package fenwick

// Tree holds n weights indexed 0..n-1. The zero value is unusable; use New.
type Tree struct {
	n    int
	sums []float64 // 1-based partial sums
	vals []float64 // current weight per index
}

// New creates a tree of n zero weights.
func New(n int) *Tree {
	return &Tree{
		n:    n,
		sums: make([]float64, n+1),
		vals: make([]float64, n),
	}
}

// Len returns the number of weights.
func (t *Tree) Len() int { return t.n }

// Get returns the weight at i.
func (t *Tree) Get(i int) float64 { return t.vals[i] }

// Build replaces all weights in one pass. len(vals) must equal Len.
func (t *Tree) Build(vals []float64) {
	if len(vals) != t.n {
		panic("fenwick: Build length mismatch")
	}
	copy(t.vals, vals)
	for i := range t.sums {
		t.sums[i] = 0
	}
	for i := 1; i <= t.n; i++ {
		t.sums[i] += t.vals[i-1]
		if j := i + (i & -i); j <= t.n {
			t.sums[j] += t.sums[i]
		}
	}
}

// Set replaces the weight at i.
func (t *Tree) Set(i int, v float64) {
	delta := v - t.vals[i]
	if delta == 0 {
		return
	}
	t.vals[i] = v
	for j := i + 1; j <= t.n; j += j & -j {
		t.sums[j] += delta
	}
}

// Total returns the sum of all weights.
func (t *Tree) Total() float64 {
	var sum float64
	for j := t.n; j > 0; j -= j & -j {
		sum += t.sums[j]
	}
	return sum
}

// Find locates the weight interval containing the cumulative value v: the
// smallest index i with prefix(i+1) > v, skipping zero weights. It returns
// i and the residual of v inside that interval. Values at or beyond the
// total clamp to the last index with its full weight as residual. The tree
// must not be empty.
func (t *Tree) Find(v float64) (int, float64) {
	if t.n == 0 {
		panic("fenwick: Find on empty tree")
	}

	k := 1
	for k<<1 <= t.n {
		k <<= 1
	}

	idx := 0
	for ; k > 0; k >>= 1 {
		next := idx + k
		if next <= t.n && t.sums[next] <= v {
			idx = next
			v -= t.sums[next]
		}
	}

	if idx >= t.n {
		idx = t.n - 1
		v = t.vals[idx]
	}
	return idx, v
}
