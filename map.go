package automaton

// Hashable is implemented by keys of HashMap.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// maxLoad is the average chain length above which the bucket array doubles.
const maxLoad = 0.75

// HashMap is an insert-only chained hash map keyed by Hashable values. Subset
// construction uses it to intern state sets, whose identity is their content rather
// than a Go-comparable value. It is not safe for concurrent use.
type HashMap[T any] struct {
	buckets []*entry[T]
	size    int
	mask    uint64
}

type entry[T any] struct {
	key   Hashable
	value T
	next  *entry[T]
}

// OptionsHashMap configures NewHashMap.
type OptionsHashMap func(capacity *int)

// WithCapacity sets the initial number of buckets.
func WithCapacity(capacity int) OptionsHashMap {
	return func(c *int) {
		*c = capacity
	}
}

// NewHashMap creates a map. The capacity is rounded up to a power of two.
func NewHashMap[T any](options ...OptionsHashMap) *HashMap[T] {
	capacity := 1
	for _, opt := range options {
		opt(&capacity)
	}
	buckets := 1
	for buckets < capacity {
		buckets <<= 1
	}
	return &HashMap[T]{
		buckets: make([]*entry[T], buckets),
		mask:    uint64(buckets - 1),
	}
}

// GetOrSet returns the value stored under key. When key is absent, value is stored and
// returned with loaded set to false.
func (m *HashMap[T]) GetOrSet(key Hashable, value T) (actual T, loaded bool) {
	hash := key.Hash()
	for e := m.buckets[hash&m.mask]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}

	m.insert(hash, key, value)
	m.size++
	if float64(m.size)/float64(len(m.buckets)) > maxLoad {
		m.grow()
	}
	return value, false
}

// Size returns the number of keys stored.
func (m *HashMap[T]) Size() int {
	return m.size
}

func (m *HashMap[T]) insert(hash uint64, key Hashable, value T) {
	index := hash & m.mask
	m.buckets[index] = &entry[T]{key: key, value: value, next: m.buckets[index]}
}

// grow doubles the bucket array, relinking the existing entries.
func (m *HashMap[T]) grow() {
	old := m.buckets
	m.buckets = make([]*entry[T], len(old)<<1)
	m.mask = uint64(len(m.buckets) - 1)

	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			index := e.key.Hash() & m.mask
			e.next = m.buckets[index]
			m.buckets[index] = e
			e = next
		}
	}
}
