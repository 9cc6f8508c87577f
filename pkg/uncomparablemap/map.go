// Package uncomparablemap implements a hash map keyed by values that may
// not be Go-comparable (maps, slices), using a pluggable hasher for
// bucketing and a pluggable comparer to settle collisions within a
// bucket.
package uncomparablemap

import (
	"iter"
	"slices"

	"github.com/go-gedb/gedb/domain"
)

const (
	initialBuckets = 8
	maxLoadFactor  = 0.75
)

type kv[T any] struct {
	key   any
	value T
}

// UncomparableMap is a hash map over keys that may not support Go's ==
// operator. Equality is delegated to a [domain.Comparer] and bucket
// placement to a [domain.Hasher]; the bucket table grows and rehashes
// once the load factor crosses maxLoadFactor.
type UncomparableMap[T any] struct {
	buckets  [][]kv[T]
	count    int
	hasher   domain.Hasher
	comparer domain.Comparer
}

// New returns an empty [UncomparableMap].
func New[T any](hasher domain.Hasher, comparer domain.Comparer) *UncomparableMap[T] {
	return &UncomparableMap[T]{
		buckets:  make([][]kv[T], initialBuckets),
		hasher:   hasher,
		comparer: comparer,
	}
}

// Set inserts or overwrites the value stored under key.
func (m *UncomparableMap[T]) Set(key any, value T) error {
	idx, err := m.bucketIndex(key, len(m.buckets))
	if err != nil {
		return err
	}

	if n, found, err := m.findInBucket(m.buckets[idx], key); err != nil {
		return err
	} else if found {
		m.buckets[idx][n] = kv[T]{key: key, value: value}
		return nil
	}

	m.buckets[idx] = append(m.buckets[idx], kv[T]{key: key, value: value})
	m.count++

	if float64(m.count) > maxLoadFactor*float64(len(m.buckets)) {
		return m.grow()
	}
	return nil
}

// Get returns the value stored under key, and whether it was present.
func (m *UncomparableMap[T]) Get(key any) (T, bool, error) {
	idx, err := m.bucketIndex(key, len(m.buckets))
	if err != nil {
		return *new(T), false, err
	}
	n, found, err := m.findInBucket(m.buckets[idx], key)
	if err != nil || !found {
		return *new(T), false, err
	}
	return m.buckets[idx][n].value, true, nil
}

// Delete removes key from the map, if present.
func (m *UncomparableMap[T]) Delete(key any) error {
	idx, err := m.bucketIndex(key, len(m.buckets))
	if err != nil {
		return err
	}
	n, found, err := m.findInBucket(m.buckets[idx], key)
	if err != nil {
		return err
	}
	if found {
		m.buckets[idx] = slices.Delete(m.buckets[idx], n, n+1)
		m.count--
	}
	return nil
}

// Keys iterates over every key currently stored, in no particular order.
func (m *UncomparableMap[T]) Keys() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, bucket := range m.buckets {
			for _, v := range bucket {
				if !yield(v.key) {
					return
				}
			}
		}
	}
}

// Values iterates over every value currently stored, in no particular
// order.
func (m *UncomparableMap[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, bucket := range m.buckets {
			for _, v := range bucket {
				if !yield(v.value) {
					return
				}
			}
		}
	}
}

// Iter iterates over every key/value pair currently stored, in no
// particular order.
func (m *UncomparableMap[T]) Iter() iter.Seq2[any, T] {
	return func(yield func(any, T) bool) {
		for _, bucket := range m.buckets {
			for _, v := range bucket {
				if !yield(v.key, v.value) {
					return
				}
			}
		}
	}
}

func (m *UncomparableMap[T]) bucketIndex(key any, buckets int) (uint64, error) {
	h, err := m.hasher.Hash(key)
	if err != nil {
		return 0, err
	}
	return h % uint64(buckets), nil
}

func (m *UncomparableMap[T]) findInBucket(bucket []kv[T], key any) (int, bool, error) {
	for n, v := range bucket {
		c, err := m.comparer.Compare(key, v.key)
		if err != nil {
			return 0, false, err
		}
		if c == 0 {
			return n, true, nil
		}
	}
	return 0, false, nil
}

// grow doubles the bucket table and rehashes every entry into it.
func (m *UncomparableMap[T]) grow() error {
	grown := make([][]kv[T], len(m.buckets)*2)
	for _, bucket := range m.buckets {
		for _, entry := range bucket {
			idx, err := m.bucketIndex(entry.key, len(grown))
			if err != nil {
				return err
			}
			grown[idx] = append(grown[idx], entry)
		}
	}
	m.buckets = grown
	return nil
}
