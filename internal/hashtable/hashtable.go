// Package hashtable provides the chained hash table backing the hub's
// item indices. Growth and lookup behaviour are deterministic so that
// two runs over the same dataset produce identical iteration orders.
package hashtable

import "errors"

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("hashtable: key not found")

const (
	defaultBuckets = 16
	maxLoadFactor  = 0.75
)

type entry[V any] struct {
	key   int
	value V
}

// Table is a separate-chaining hash table keyed by int. The zero value is
// not usable; construct with New or NewSized.
type Table[V any] struct {
	buckets [][]entry[V]
	size    int
}

// New returns a table with the default bucket count.
func New[V any]() *Table[V] {
	return NewSized[V](defaultBuckets)
}

// NewSized returns a table with the given initial bucket count.
// Counts below one fall back to the default.
func NewSized[V any](buckets int) *Table[V] {
	if buckets < 1 {
		buckets = defaultBuckets
	}
	return &Table[V]{buckets: make([][]entry[V], buckets)}
}

func (t *Table[V]) bucketFor(key int) int {
	i := key % len(t.buckets)
	if i < 0 {
		i += len(t.buckets)
	}
	return i
}

// Put inserts the value under key, replacing any previous value.
func (t *Table[V]) Put(key int, value V) {
	b := t.bucketFor(key)
	for i, e := range t.buckets[b] {
		if e.key == key {
			t.buckets[b][i].value = value
			return
		}
	}
	if float64(t.size+1) > maxLoadFactor*float64(len(t.buckets)) {
		t.grow()
		b = t.bucketFor(key)
	}
	t.buckets[b] = append(t.buckets[b], entry[V]{key: key, value: value})
	t.size++
}

// Get returns the value stored under key, or ErrNotFound.
func (t *Table[V]) Get(key int) (V, error) {
	b := t.bucketFor(key)
	for _, e := range t.buckets[b] {
		if e.key == key {
			return e.value, nil
		}
	}
	var zero V
	return zero, ErrNotFound
}

// Contains reports whether key is present.
func (t *Table[V]) Contains(key int) bool {
	_, err := t.Get(key)
	return err == nil
}

// Remove deletes key and reports whether it was present.
func (t *Table[V]) Remove(key int) bool {
	b := t.bucketFor(key)
	for i, e := range t.buckets[b] {
		if e.key == key {
			t.buckets[b] = append(t.buckets[b][:i], t.buckets[b][i+1:]...)
			t.size--
			return true
		}
	}
	return false
}

// Len returns the number of stored entries.
func (t *Table[V]) Len() int {
	return t.size
}

// Range calls fn for every entry, visiting buckets in index order and
// entries within a bucket in insertion order. Returning false stops the
// walk. The table must not be mutated during the walk.
func (t *Table[V]) Range(fn func(key int, value V) bool) {
	for _, bucket := range t.buckets {
		for _, e := range bucket {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Keys returns all keys in Range order.
func (t *Table[V]) Keys() []int {
	keys := make([]int, 0, t.size)
	t.Range(func(key int, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns all values in Range order.
func (t *Table[V]) Values() []V {
	values := make([]V, 0, t.size)
	t.Range(func(_ int, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// grow doubles the bucket count and rehashes every entry.
func (t *Table[V]) grow() {
	old := t.buckets
	t.buckets = make([][]entry[V], 2*len(old))
	for _, bucket := range old {
		for _, e := range bucket {
			b := t.bucketFor(e.key)
			t.buckets[b] = append(t.buckets[b], e)
		}
	}
}
