package event

import "iter"

// CauseTally counts kills per Cause. It is a plain array so copying a tally
// copies its counters; the zero value is an empty tally.
type CauseTally [NumCauses]int

// Inc adds one kill for c. Causes outside the registry are ignored.
func (t *CauseTally) Inc(c Cause) {
	if !c.Valid() {
		return
	}
	t[c]++
}

// Get returns the counter for c.
func (t CauseTally) Get(c Cause) int {
	if !c.Valid() {
		return 0
	}
	return t[c]
}

// Total returns the sum of all counters.
func (t CauseTally) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

// Counted yields (cause, count) pairs in ascending ordinal order, skipping
// causes that were never counted. Each call starts a new scan.
func (t CauseTally) Counted() iter.Seq2[Cause, int] {
	return func(yield func(Cause, int) bool) {
		for i, v := range t {
			if v == 0 {
				continue
			}
			if !yield(Cause(i), v) {
				return
			}
		}
	}
}
