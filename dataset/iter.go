// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"errors"
	"fmt"
)

// ErrIterDone is returned by [Iterator.Next] after the dataset
// has been fully covered.
var ErrIterDone = errors.New("dataset: iteration done")

// Iterator produces a lazy, finite, non-restartable sequence of
// batches covering the dataset exactly once in global index
// order. The final batch is shorter than the batch size if the
// dataset length is not a multiple of it.
type Iterator struct {
	ds        *Dataset
	batchSize int
	next      int
}

// Iterate returns a new [Iterator] over the dataset with the
// given batch size, which must be >= 1.
func (ds *Dataset) Iterate(batchSize int) *Iterator {
	return &Iterator{ds: ds, batchSize: batchSize}
}

// Next returns the next batch, or [ErrIterDone] once the dataset
// has been covered.
func (it *Iterator) Next() (*Batch, error) {
	if it.batchSize < 1 {
		return nil, fmt.Errorf("%w: batch size %d < 1", ErrIndexRange, it.batchSize)
	}
	if it.next >= it.ds.Len() {
		return nil, ErrIterDone
	}
	stop := min(it.next+it.batchSize, it.ds.Len())
	bt, err := it.ds.GetRange(it.next, stop-1)
	if err != nil {
		return nil, err
	}
	it.next = stop
	return bt, nil
}
