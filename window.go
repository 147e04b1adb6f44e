package restream

import (
	"errors"

	"github.com/arloliu/restream/types"
)

// Window groups consecutive elements of src into slices of the given size.
//
// The final window may be shorter if the source length is not a multiple of
// size. A fault discards the partially gathered window and is returned
// immediately; the engine never recovers partial results from a faulted
// source.
//
// Parameters:
//   - src: The upstream source; owned by the result
//   - size: Window size, must be positive
//
// Returns:
//   - Source[[]T]: The windowed source
//   - error: types.ErrInvalidWindow if size < 1
func Window[T any](src Source[T], size int) (Source[[]T], error) {
	return Strided(src, size, size)
}

// Strided groups elements of src into windows of up to size elements,
// starting a new window every stride elements.
//
// A window starts at every position 0, stride, 2*stride, ... that lies
// within the sequence, so with stride < size consecutive windows overlap
// and the tail of the sequence yields progressively shorter windows; with
// stride > size the elements between windows are skipped.
// Strided(src, n, n) is Window(src, n). Each underlying element is pulled
// exactly once regardless of overlap.
//
// Parameters:
//   - src: The upstream source; owned by the result
//   - size: Window size, must be positive
//   - stride: Distance between window starts, must be positive
//
// Returns:
//   - Source[[]T]: The windowed source
//   - error: types.ErrInvalidWindow if size < 1 or stride < 1
func Strided[T any](src Source[T], size, stride int) (Source[[]T], error) {
	if size < 1 || stride < 1 {
		return nil, types.ErrInvalidWindow
	}

	var (
		carry []T // overlap retained from the previous window
		skip  int // elements still to discard before the next window
		ended bool
		done  bool
	)

	return SourceFunc[[]T](func() ([]T, error) {
		if done {
			return nil, types.ErrEndOfSequence
		}

		window := append([]T(nil), carry...)

		for skip > 0 && !ended {
			_, err := src.Pull()
			if err != nil {
				if !errors.Is(err, types.ErrEndOfSequence) {
					done = true

					return nil, err
				}
				ended = true

				break
			}
			skip--
		}

		for len(window) < size && !ended {
			v, err := src.Pull()
			if err != nil {
				if !errors.Is(err, types.ErrEndOfSequence) {
					done = true

					return nil, err
				}
				ended = true

				break
			}
			window = append(window, v)
		}

		if len(window) == 0 {
			done = true

			return nil, types.ErrEndOfSequence
		}

		// The next window starts stride positions later: keep the overlap,
		// or note how many upcoming elements to discard.
		if stride < len(window) {
			carry = append([]T(nil), window[stride:]...)
		} else {
			carry = nil
			skip = stride - len(window)
		}

		return window, nil
	}), nil
}
