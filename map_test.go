package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// collidingKey hashes every value to its length so that collisions are easy to build.
type collidingKey string

func (k collidingKey) Hash() uint64 {
	return uint64(len(k))
}

func (k collidingKey) Equals(other Hashable) bool {
	o, ok := other.(collidingKey)
	return ok && k == o
}

func TestHashMapGetOrSet(t *testing.T) {
	hm := NewHashMap[int]()

	v, loaded := hm.GetOrSet(NewFrozenIntSet([]int{0, 1}, 0), 0)
	assert.False(t, loaded)
	assert.Equal(t, 0, v)

	v, loaded = hm.GetOrSet(NewFrozenIntSet([]int{0, 1}, 1), 1)
	assert.True(t, loaded)
	assert.Equal(t, 0, v)

	v, loaded = hm.GetOrSet(NewFrozenIntSet([]int{1}, 1), 1)
	assert.False(t, loaded)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, hm.Size())
}

func TestHashMapCollision(t *testing.T) {
	hm := NewHashMap[string](WithCapacity(16))

	for _, k := range []collidingKey{"ab", "cd", "abc"} {
		_, loaded := hm.GetOrSet(k, string(k))
		assert.False(t, loaded)
	}
	assert.Equal(t, 3, hm.Size())

	v, loaded := hm.GetOrSet(collidingKey("cd"), "other")
	assert.True(t, loaded)
	assert.Equal(t, "cd", v)

	// same hash, different key types
	set := NewFrozenIntSet(nil, 0)
	set.hashCode = collidingKey("ab").Hash()
	v, loaded = hm.GetOrSet(set, "set")
	assert.False(t, loaded)
	assert.Equal(t, "set", v)
	assert.Equal(t, 4, hm.Size())
}

func TestHashMapGrow(t *testing.T) {
	initialCap := 16
	hm := NewHashMap[int](WithCapacity(initialCap))

	// 16 * 0.75 = 12
	for i := 0; i < 13; i++ {
		hm.GetOrSet(NewFrozenIntSet([]int{i}, i), i)
	}
	assert.Greater(t, len(hm.buckets), initialCap)

	for i := 0; i < 13; i++ {
		val, loaded := hm.GetOrSet(NewFrozenIntSet([]int{i}, 0), -1)
		assert.True(t, loaded)
		assert.Equal(t, i, val)
	}
	assert.Equal(t, 13, hm.Size())
}

func TestHashMapCapacity(t *testing.T) {
	assert.Equal(t, 1, len(NewHashMap[string](WithCapacity(0)).buckets))
	assert.Equal(t, 8, len(NewHashMap[string](WithCapacity(5)).buckets))

	hm := NewHashMap[string](WithCapacity(8))
	assert.Panics(t, func() {
		hm.GetOrSet(nil, "value")
	})
}
