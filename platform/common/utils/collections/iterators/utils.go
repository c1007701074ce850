/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package iterators

// ReadAllPointers reads all pointer elements of an Iterator and returns them
func ReadAllPointers[T any](it Iterator[*T]) ([]*T, error) {
	defer it.Close()
	items := make([]*T, 0)
	for item, err := it.Next(); item != nil || err != nil; item, err = it.Next() {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ReadAllValues reads all pointer elements of an Iterator and returns the values
// No nil elements are expected!
func ReadAllValues[T any](it Iterator[*T]) ([]T, error) {
	defer it.Close()
	items := make([]T, 0)
	for item, err := it.Next(); item != nil || err != nil; item, err = it.Next() {
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// ReadFirst reads the first {{limit}} elements of the input Iterator
func ReadFirst[T any](it Iterator[*T], limit int) ([]T, error) {
	defer it.Close()
	items := make([]T, 0)
	for len(items) < limit {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}
		if item == nil {
			break
		}
		items = append(items, *item)
	}
	return items, nil
}

// ForEach executes the given ConsumeFunc for each element of the Iterator
func ForEach[V any](it Iterator[*V], consume ConsumeFunc[*V]) error {
	defer it.Close()
	for {
		item, err := it.Next()
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		if err := consume(item); err != nil {
			return err
		}
	}
}

// Slice iterates over the elements of a slice
func Slice[T any](items []*T) Iterator[*T] {
	return &sliceIterator[T]{items: items}
}

type sliceIterator[T any] struct {
	items []*T
	i     int
}

func (it *sliceIterator[T]) Next() (*T, error) {
	if it.i >= len(it.items) {
		return nil, nil
	}
	it.i++
	return it.items[it.i-1], nil
}

func (it *sliceIterator[T]) Close() {}
