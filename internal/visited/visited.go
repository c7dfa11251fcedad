// Package visited provides a reusable visited-set for graph traversals over
// densely numbered nodes.
package visited

// Set tracks visited node indices using a bitset and a touched list for fast
// reset. Indices are dense positions in [0, n), never raw EntityIDs, so the
// bitset is bounded by the node count.
type Set struct {
	bits    []uint64
	touched []int
}

// New creates a set sized for indices below capacity.
func New(capacity int) *Set {
	capacity = max(capacity, 0)
	return &Set{
		bits:    make([]uint64, (capacity+63)/64),
		touched: make([]int, 0, 128),
	}
}

// Visit marks i as visited and reports whether it was newly marked.
func (v *Set) Visit(i int) bool {
	wordIdx := i >> 6
	bitMask := uint64(1) << (uint(i) & 63)

	if wordIdx >= len(v.bits) {
		v.grow(wordIdx + 1)
	}

	if v.bits[wordIdx]&bitMask != 0 {
		return false
	}
	v.bits[wordIdx] |= bitMask
	v.touched = append(v.touched, i)
	return true
}

// Reset clears only the words touched since the previous Reset.
func (v *Set) Reset() {
	for _, i := range v.touched {
		v.bits[i>>6] &^= uint64(1) << (uint(i) & 63)
	}
	v.touched = v.touched[:0]
}

func (v *Set) grow(newLen int) {
	newCap := len(v.bits) * 2
	if newCap < newLen {
		newCap = newLen
	}
	newBits := make([]uint64, newCap)
	copy(newBits, v.bits)
	v.bits = newBits
}
