/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package iterators

// Map lazily maps an iterator of pointers to another.
// Exhaustion (a nil element) is propagated without invoking the transformer.
func Map[A any, B any](iterator Iterator[*A], transformer Transformer[*A, *B]) Iterator[*B] {
	return &mapped[A, B]{Iterator: iterator, transformer: transformer}
}

type mapped[A any, B any] struct {
	Iterator[*A]
	transformer Transformer[*A, *B]
}

func (it *mapped[A, B]) Next() (*B, error) {
	next, err := it.Iterator.Next()
	if err != nil || next == nil {
		return nil, err
	}
	return it.transformer(next)
}

// Filter lazily drops the elements that do not satisfy the predicate
func Filter[A any](iterator Iterator[*A], predicate Predicate[*A]) Iterator[*A] {
	return &filtered[A]{Iterator: iterator, predicate: predicate}
}

type filtered[A any] struct {
	Iterator[*A]
	predicate Predicate[*A]
}

func (it *filtered[A]) Next() (*A, error) {
	for {
		next, err := it.Iterator.Next()
		if err != nil || next == nil {
			return nil, err
		}
		if it.predicate(next) {
			return next, nil
		}
	}
}
