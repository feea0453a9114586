package layout

import (
	"github.com/hexbee-net/errors"
)

// Dictionary is the indexable value table a dictionary page decodes into.
// BYTE_ARRAY chunks do not use it; their dictionary entries live at the
// head of the result column's string heap.
type Dictionary[T any] struct {
	values []T
}

func (d *Dictionary[T]) Len() int {
	return len(d.values)
}

func (d *Dictionary[T]) Get(idx uint32) (T, error) {
	if int(idx) >= len(d.values) {
		var zero T

		return zero, errors.WithFields(
			errors.WithStack(ErrInvalidDictIndex),
			errors.Fields{
				"index":     idx,
				"dict-size": len(d.values),
			})
	}

	return d.values[idx], nil
}

// buildDict reads count contiguous little-endian values of the given width
// from the head of a dictionary page payload.
func buildDict[T any](data []byte, size, count, width int, get func([]byte) T) (*Dictionary[T], error) {
	if count*width > size {
		return nil, errors.WithFields(
			errors.WithStack(ErrShortPage),
			errors.Fields{
				"values":    count,
				"page-size": size,
			})
	}

	values := make([]T, count)
	for i := range values {
		values[i] = get(data[i*width:])
	}

	return &Dictionary[T]{values: values}, nil
}
