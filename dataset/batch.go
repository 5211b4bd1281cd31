// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"fmt"
	"runtime"
	"slices"

	"cogentcore.org/vision/tensor"
	"golang.org/x/sync/errgroup"
)

// Multi-hot label tensor values: the true-class column is
// MultiHotOn and every other column is MultiHotOff. This
// non-default -1 background is relied on by downstream consumers
// and must not be changed.
const (
	MultiHotOn  = 1
	MultiHotOff = -1
)

// Batch is one uniformly-shaped batch of decoded samples:
// the input tensor of shape (size, ...sample dims), the class id
// vector of length size, the multi-hot label tensor of shape
// (size, numClasses), and the opaque per-sample carry payload,
// if the dataset has one. A Batch is constructed fresh per
// request and never mutated by the Dataset after return; the
// in-place [Batch.Sub] and [Batch.Index] variants rewrite an
// existing Batch's buffers for reuse across iterations, and
// assume exclusive ownership of the destination.
type Batch struct {

	// Input is the batch input tensor, shape (size, ...sample dims).
	Input tensor.Values

	// Labels is the class id of each sample, length size.
	Labels *tensor.Int32

	// MultiHot is the multi-hot label tensor, shape
	// (size, numClasses), with [MultiHotOff] background and
	// [MultiHotOn] at the true class column.
	MultiHot *tensor.Float32

	// Carry is the opaque per-sample payload, or nil.
	Carry Carry
}

// Size returns the number of samples in the batch.
func (bt *Batch) Size() int {
	if bt.Input == nil {
		return 0
	}
	return bt.Input.DimSize(0)
}

// BatchToTensor assembles the given equally-shaped decoded sample
// tensors and class ids into one Batch: a single input tensor of
// shape (n, ...sample dims), the class id vector, and the
// multi-hot label tensor over numClasses classes.
// It fails with [ErrShapeMismatch] if the sample shapes or data
// types are inconsistent.
func BatchToTensor(samples []tensor.Values, labels []int32, numClasses int) (*Batch, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrShapeMismatch)
	}
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("%w: %d samples but %d labels", ErrShapeMismatch, len(samples), len(labels))
	}
	s0 := samples[0]
	cell := s0.Len()
	for i, sm := range samples[1:] {
		if !sm.Shape().IsEqual(s0.Shape()) || sm.DataType() != s0.DataType() {
			return nil, fmt.Errorf("%w: sample %d is %v %s, first is %v %s",
				ErrShapeMismatch, i+1, sm.DataType(), sm.Shape(), s0.DataType(), s0.Shape())
		}
	}
	n := len(samples)
	sizes := append([]int{n}, s0.Shape().Sizes...)
	input := tensor.NewOfType(s0.DataType(), sizes...)
	for i, sm := range samples {
		input.CopyCellsFrom(sm, i*cell, 0, cell)
	}
	lbl := tensor.NewInt32(n)
	copy(lbl.Values, labels)
	return &Batch{Input: input, Labels: lbl, MultiHot: multiHot(labels, numClasses)}, nil
}

// multiHot returns the multi-hot label tensor for the given class
// ids: shape (n, numClasses), [MultiHotOff] everywhere except
// [MultiHotOn] at each sample's true class column.
func multiHot(labels []int32, numClasses int) *tensor.Float32 {
	n := len(labels)
	mh := tensor.NewFloat32(n, numClasses)
	for i := range mh.Values {
		mh.Values[i] = MultiHotOff
	}
	for i, lb := range labels {
		mh.Values[i*numClasses+int(lb)] = MultiHotOn
	}
	return mh
}

// Sub rewrites this Batch in place to hold the samples
// [start, stop) of the src Batch, reusing this Batch's buffers
// where possible to avoid reallocation in tight training loops.
// The destination must be exclusively owned by the caller.
func (bt *Batch) Sub(src *Batch, start, stop int) error {
	n := src.Size()
	if start < 0 || stop > n || start > stop {
		return fmt.Errorf("%w: sub range [%d, %d) of batch size %d", ErrIndexRange, start, stop, n)
	}
	ixs := make([]int, stop-start)
	for i := range ixs {
		ixs[i] = start + i
	}
	bt.gatherFrom(src, ixs)
	if src.Carry != nil {
		bt.Carry = src.Carry.Slice(start, stop)
	} else {
		bt.Carry = nil
	}
	return nil
}

// Index rewrites this Batch in place to hold the samples of the
// src Batch at the given indices, in exactly that order (indices
// may repeat), reusing this Batch's buffers where possible.
// The destination must be exclusively owned by the caller.
func (bt *Batch) Index(src *Batch, indices []int) error {
	n := src.Size()
	for _, ix := range indices {
		if ix < 0 || ix >= n {
			return fmt.Errorf("%w: index %d of batch size %d", ErrIndexRange, ix, n)
		}
	}
	bt.gatherFrom(src, indices)
	if src.Carry != nil {
		bt.Carry = src.Carry.Gather(indices)
	} else {
		bt.Carry = nil
	}
	return nil
}

// gatherFrom fills this Batch's buffers with the given rows of
// src, reusing existing buffers when their types match.
func (bt *Batch) gatherFrom(src *Batch, indices []int) {
	n := len(indices)
	_, cell := src.Input.RowCellSize()
	sizes := slices.Clone(src.Input.Shape().Sizes)
	sizes[0] = n
	if bt.Input == nil || bt.Input.DataType() != src.Input.DataType() {
		bt.Input = tensor.NewOfType(src.Input.DataType(), sizes...)
	} else {
		bt.Input.SetShapeSizes(sizes...)
	}
	for i, ix := range indices {
		bt.Input.CopyCellsFrom(src.Input, i*cell, ix*cell, cell)
	}

	if bt.Labels == nil {
		bt.Labels = tensor.NewInt32(n)
	} else {
		bt.Labels.SetShapeSizes(n)
	}
	for i, ix := range indices {
		bt.Labels.Values[i] = src.Labels.Values[ix]
	}

	nc := src.MultiHot.DimSize(1)
	if bt.MultiHot == nil {
		bt.MultiHot = tensor.NewFloat32(n, nc)
	} else {
		bt.MultiHot.SetShapeSizes(n, nc)
	}
	for i, ix := range indices {
		copy(bt.MultiHot.Values[i*nc:(i+1)*nc], src.MultiHot.Values[ix*nc:(ix+1)*nc])
	}
}

// decodeIndices decodes the samples at the given global indices
// via the codec, applying the sample hook if set, preserving
// order. Decoding runs on parallel workers over the read-only
// index; any decode error aborts the whole batch.
func (ds *Dataset) decodeIndices(indices []int) ([]tensor.Values, error) {
	samples := make([]tensor.Values, len(indices))
	g := &errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ix := range indices {
		i, ix := i, ix
		g.Go(func() error {
			tsr, err := ds.Codec.Decode(ds.Path(ix), ds.Height, ds.Width)
			if err != nil {
				return fmt.Errorf("dataset: decoding %q: %w", ds.Path(ix), err)
			}
			if ds.Hook != nil {
				tsr, err = ds.Hook(ds, ix, tsr)
				if err != nil {
					return err
				}
			}
			samples[i] = tsr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}

// assemble decodes and assembles the samples at the given global
// indices into a fresh Batch, attaching the gathered carry
// payload if the dataset has one.
func (ds *Dataset) assemble(indices []int) (*Batch, error) {
	samples, err := ds.decodeIndices(indices)
	if err != nil {
		return nil, err
	}
	labels := make([]int32, len(indices))
	for i, ix := range indices {
		labels[i] = ds.Labels[ix]
	}
	bt, err := BatchToTensor(samples, labels, ds.NumClasses())
	if err != nil {
		return nil, err
	}
	if ds.Carry != nil {
		bt.Carry = ds.Carry.Gather(indices)
	}
	return bt, nil
}
