// Package sql provides a restream source over database/sql result sets.
//
// A query's rows become a Source that can be shared, forked, and branched
// like any other sequence, with each row scanned exactly once no matter how
// many readers consume it.
package sql

import (
	"database/sql"

	"github.com/arloliu/restream"
	"github.com/arloliu/restream/types"
)

// Rows is the subset of *sql.Rows the source needs.
//
// *sql.Rows satisfies it directly; the interface exists so tests and
// alternative row implementations can be used without a live database.
type Rows interface {
	// Next prepares the next row. Returns false when no more rows exist
	// or an error occurred during iteration.
	Next() bool

	// Scan copies the current row's columns into dest.
	Scan(dest ...any) error

	// Err returns the error, if any, encountered during iteration.
	Err() error

	// Close closes the rows iterator.
	Close() error
}

// Compile-time assertion that *sql.Rows satisfies Rows.
var _ Rows = (*sql.Rows)(nil)

// ScanFunc scans the current row into a value of type T.
type ScanFunc[T any] func(Rows) (T, error)

// rowsSource pulls rows one at a time, closing the iterator on the first
// terminal outcome. It never touches rows again after closing.
type rowsSource[T any] struct {
	rows   Rows
	scan   ScanFunc[T]
	closed bool
}

// New creates a Source over a rows iterator.
//
// Each Pull advances the iterator by one row and scans it with scan. When
// the rows are exhausted the iterator is closed and end of sequence is
// reported; an iteration, scan, or close error is surfaced as a fault. The
// source takes ownership of rows; callers must not use or close them
// afterwards.
//
// Example:
//
//	rows, _ := db.QueryContext(ctx, "SELECT id, name FROM users ORDER BY id")
//	src := sqladapter.New(rows, func(r sqladapter.Rows) (User, error) {
//	    var u User
//	    err := r.Scan(&u.ID, &u.Name)
//	    return u, err
//	})
//	shared := restream.Share(src)
//
// Parameters:
//   - rows: The rows iterator to consume; owned by the source
//   - scan: Scans one row into a T
//
// Returns:
//   - restream.Source[T]: A source yielding one T per row
func New[T any](rows Rows, scan ScanFunc[T]) restream.Source[T] {
	return &rowsSource[T]{rows: rows, scan: scan}
}

// Pull scans the next row.
func (s *rowsSource[T]) Pull() (T, error) {
	var zero T

	if s.closed {
		return zero, types.ErrEndOfSequence
	}

	if !s.rows.Next() {
		s.closed = true

		if err := s.rows.Err(); err != nil {
			_ = s.rows.Close()

			return zero, err
		}
		if err := s.rows.Close(); err != nil {
			return zero, err
		}

		return zero, types.ErrEndOfSequence
	}

	v, err := s.scan(s.rows)
	if err != nil {
		s.closed = true
		_ = s.rows.Close()

		return zero, err
	}

	return v, nil
}
