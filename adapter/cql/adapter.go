// Package cql provides a restream source over CQL query iterators.
//
// A gocql iterator becomes a Source of row maps that can be shared, forked,
// and branched like any other sequence, with each page fetched exactly once
// no matter how many readers consume it.
package cql

import (
	"github.com/gocql/gocql"

	"github.com/arloliu/restream"
	"github.com/arloliu/restream/types"
)

// Iter is the subset of *gocql.Iter the source needs.
//
// *gocql.Iter satisfies it directly; the interface exists so tests and
// alternative iterator implementations can be used without a live cluster.
type Iter interface {
	// MapScan scans the next row into m. Returns false when no more rows
	// exist or an error occurred; the error is reported by Close.
	MapScan(m map[string]any) bool

	// Close closes the iterator and returns any error seen during
	// iteration.
	Close() error
}

// Compile-time assertion that *gocql.Iter satisfies Iter.
var _ Iter = (*gocql.Iter)(nil)

// WrapIter adapts a gocql iterator to the Iter interface.
//
// This is a no-op wrapper kept for call-site clarity when migrating
// existing gocql code:
//
//	iter := session.Query("SELECT * FROM events").Iter()
//	shared := restream.Share(cql.New(cql.WrapIter(iter)))
//
// Parameters:
//   - iter: The gocql iterator to wrap
//
// Returns:
//   - Iter: The same iterator, typed as Iter
func WrapIter(iter *gocql.Iter) Iter {
	return iter
}

// iterSource pulls one row map per call, closing the iterator on the first
// terminal outcome.
type iterSource struct {
	iter   Iter
	closed bool
}

// New creates a Source over a CQL iterator.
//
// Each Pull scans one row into a fresh map. When the iterator is exhausted
// it is closed: a nil close error reports end of sequence, a non-nil one is
// surfaced as a fault. The source takes ownership of iter; callers must not
// use or close it afterwards.
//
// Parameters:
//   - iter: The iterator to consume; owned by the source
//
// Returns:
//   - restream.Source[map[string]any]: A source yielding one row map per row
func New(iter Iter) restream.Source[map[string]any] {
	return &iterSource{iter: iter}
}

// Pull scans the next row.
func (s *iterSource) Pull() (map[string]any, error) {
	if s.closed {
		return nil, types.ErrEndOfSequence
	}

	row := make(map[string]any)
	if s.iter.MapScan(row) {
		return row, nil
	}

	s.closed = true
	if err := s.iter.Close(); err != nil {
		return nil, err
	}

	return nil, types.ErrEndOfSequence
}
