// Package keyset provides an immutable set of primary-key values used for
// referential filtering between datasets.
//
// Keys are bucketed by their xxh3 hash and verified by exact string
// comparison, so membership is a strict equality test on the raw value.
package keyset

import (
	"github.com/zeebo/xxh3"

	"salesclean/pkg/records"
)

// Set is a read-only collection of key values. The zero value is an empty set.
// A Set is safe for concurrent reads once built.
type Set struct {
	buckets map[uint64][]string
	n       int
}

// New builds a Set from the given keys. Duplicates are collapsed.
func New(keys ...string) *Set {
	s := &Set{buckets: make(map[uint64][]string, len(keys))}
	for _, k := range keys {
		s.add(k)
	}
	return s
}

// FromDataset collects the non-null values of column from ds.
func FromDataset(ds records.Dataset, column string) *Set {
	s := &Set{buckets: make(map[uint64][]string, len(ds.Rows))}
	for _, r := range ds.Rows {
		if v, ok := r.String(column); ok {
			s.add(v)
		}
	}
	return s
}

func (s *Set) add(k string) {
	h := xxh3.HashString(k)
	for _, existing := range s.buckets[h] {
		if existing == k {
			return
		}
	}
	s.buckets[h] = append(s.buckets[h], k)
	s.n++
}

// Contains reports whether k is a member of the set.
func (s *Set) Contains(k string) bool {
	if s == nil || s.buckets == nil {
		return false
	}
	for _, existing := range s.buckets[xxh3.HashString(k)] {
		if existing == k {
			return true
		}
	}
	return false
}

// Len returns the number of distinct keys.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}
