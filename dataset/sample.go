// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"fmt"
)

// SampleBalanced returns a batch of the given quantity of
// samples, drawn class-balanced: for each draw, a class is picked
// uniformly at random among all classes, then a sample uniformly
// at random within that class's index range. Per-class draw
// probability is therefore equal regardless of class population
// size. quantity must be >= 1.
func (ds *Dataset) SampleBalanced(quantity int) (*Batch, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity %d < 1", ErrIndexRange, quantity)
	}
	if ds.NumClasses() == 0 {
		return nil, fmt.Errorf("%w: no usable classes in %s split", ErrUnsupportedMode, ds.Split)
	}
	rnd := ds.rand()
	indices := make([]int, quantity)
	for i := range indices {
		cls := rnd.Intn(ds.NumClasses())
		indices[i] = ds.ClassIndex(cls, rnd.Intn(ds.Counts[cls]))
	}
	return ds.assemble(indices)
}

// SampleRandom returns a batch of the given quantity of samples
// drawn uniformly at random over all samples, so classes are
// drawn in proportion to their population size (contrast
// [Dataset.SampleBalanced]). quantity must be >= 1.
func (ds *Dataset) SampleRandom(quantity int) (*Batch, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity %d < 1", ErrIndexRange, quantity)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no samples in %s split", ErrUnsupportedMode, ds.Split)
	}
	rnd := ds.rand()
	indices := make([]int, quantity)
	for i := range indices {
		indices[i] = rnd.Intn(ds.Len())
	}
	return ds.assemble(indices)
}

// Sample returns a batch of the given quantity of samples drawn
// according to the configured sampling [Mode], failing with
// [ErrUnsupportedMode] for an unrecognized mode.
func (ds *Dataset) Sample(quantity int) (*Batch, error) {
	switch ds.Mode {
	case Balanced:
		return ds.SampleBalanced(quantity)
	case Random:
		return ds.SampleRandom(quantity)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, ds.Mode)
}

// GetRange returns the batch of samples at global indices
// start..stop inclusive, in ascending order: exactly
// stop - start + 1 samples. It fails with [ErrIndexRange] if
// start > stop or the range falls outside [0, Len).
// Typically used for deterministic evaluation iteration.
func (ds *Dataset) GetRange(start, stop int) (*Batch, error) {
	if start > stop || start < 0 || stop >= ds.Len() {
		return nil, fmt.Errorf("%w: range [%d, %d] of %d samples", ErrIndexRange, start, stop, ds.Len())
	}
	indices := make([]int, stop-start+1)
	for i := range indices {
		indices[i] = start + i
	}
	return ds.assemble(indices)
}

// GetByIndices returns the batch of samples at the given global
// indices, preserving order (indices may repeat). It fails with
// [ErrIndexRange] if any index falls outside [0, Len).
func (ds *Dataset) GetByIndices(indices []int) (*Batch, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: empty index list", ErrIndexRange)
	}
	for _, ix := range indices {
		if ix < 0 || ix >= ds.Len() {
			return nil, fmt.Errorf("%w: index %d of %d samples", ErrIndexRange, ix, ds.Len())
		}
	}
	return ds.assemble(indices)
}
