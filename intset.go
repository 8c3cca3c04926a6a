package automaton

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// IntSet is a hashable set of state numbers.
type IntSet interface {
	Hashable

	GetArray() []int

	Size() int
}

var _ IntSet = &FrozenIntSet{}

// FrozenIntSet is an immutable, sorted set of state numbers together with the handle of the
// state it was interned as.
type FrozenIntSet struct {
	values   []int
	state    int
	hashCode uint64
}

func NewFrozenIntSet(values []int, state int) *FrozenIntSet {
	return &FrozenIntSet{values: values, state: state, hashCode: hashValues(values)}
}

// freezeBits snapshots the set bits of b.
func freezeBits(b *bitset.BitSet, state int) *FrozenIntSet {
	values := make([]int, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		values = append(values, int(i))
	}
	return NewFrozenIntSet(values, state)
}

func hashValues(values []int) uint64 {
	h := uint64(len(values))
	for _, v := range values {
		h += uint64(mix32(v))
	}
	return h
}

func (f *FrozenIntSet) Hash() uint64 {
	return f.hashCode
}

func (f *FrozenIntSet) Equals(other Hashable) bool {
	is, ok := other.(IntSet)
	if !ok || is == nil {
		return false
	}
	if is.Hash() != f.Hash() {
		return false
	}
	return slices.Equal(f.values, is.GetArray())
}

func (f *FrozenIntSet) GetArray() []int {
	return f.values
}

func (f *FrozenIntSet) Size() int {
	return len(f.values)
}

// State returns the handle this set was interned as.
func (f *FrozenIntSet) State() int {
	return f.state
}

// Bits returns a fresh bitset holding the values.
func (f *FrozenIntSet) Bits() *bitset.BitSet {
	b := bitset.New(0)
	for _, v := range f.values {
		b.Set(uint(v))
	}
	return b
}

// subsetTable interns state sets to dense handles, numbered in discovery order.
// Subset construction and the regex compiler use it so that equal sets always map to
// the same output state without building label strings on the hot path.
type subsetTable struct {
	handles *HashMap[int]
	sets    []*FrozenIntSet
}

func newSubsetTable() *subsetTable {
	return &subsetTable{
		handles: NewHashMap[int](WithCapacity(16)),
		sets:    make([]*FrozenIntSet, 0, 16),
	}
}

// intern returns the handle of b, and true when b was not seen before.
func (t *subsetTable) intern(b *bitset.BitSet) (int, bool) {
	key := freezeBits(b, len(t.sets))
	if h, loaded := t.handles.GetOrSet(key, key.state); loaded {
		return h, false
	}
	t.sets = append(t.sets, key)
	return key.state, true
}

func (t *subsetTable) get(handle int) *FrozenIntSet {
	return t.sets[handle]
}

func (t *subsetTable) size() int {
	return t.handles.Size()
}
