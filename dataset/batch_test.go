// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"testing"

	"cogentcore.org/vision/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idCarry tracks per-sample string ids for carry propagation tests.
type idCarry []string

func (ic idCarry) Slice(start, stop int) Carry { return ic[start:stop] }

func (ic idCarry) Gather(indices []int) Carry {
	out := make(idCarry, len(indices))
	for i, ix := range indices {
		out[i] = ic[ix]
	}
	return out
}

// sampleTensor returns a (2, 2) float32 sample filled with v.
func sampleTensor(v float32) *tensor.Float32 {
	tsr := tensor.NewFloat32(2, 2)
	for i := range tsr.Values {
		tsr.Values[i] = v
	}
	return tsr
}

func TestBatchToTensor(t *testing.T) {
	samples := []tensor.Values{sampleTensor(0), sampleTensor(1), sampleTensor(2)}
	bt, err := BatchToTensor(samples, []int32{2, 0, 1}, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, bt.Size())
	assert.Equal(t, []int{3, 2, 2}, bt.Input.Shape().Sizes)
	for i := 0; i < 3; i++ {
		assert.Equal(t, float64(i), bt.Input.Float(i, 1, 1))
	}
	assert.Equal(t, []int32{2, 0, 1}, bt.Labels.Values)

	assert.Equal(t, []int{3, 3}, bt.MultiHot.Shape().Sizes)
	want := []float32{
		-1, -1, 1,
		1, -1, -1,
		-1, 1, -1,
	}
	assert.Equal(t, want, bt.MultiHot.Values)
}

func TestBatchToTensorMismatch(t *testing.T) {
	_, err := BatchToTensor(nil, nil, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = BatchToTensor([]tensor.Values{sampleTensor(0)}, []int32{0, 1}, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	odd := tensor.NewFloat32(2, 3)
	_, err = BatchToTensor([]tensor.Values{sampleTensor(0), odd}, []int32{0, 1}, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	cast := tensor.NewInt32(2, 2)
	_, err = BatchToTensor([]tensor.Values{sampleTensor(0), cast}, []int32{0, 1}, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func testBatch(t *testing.T) *Batch {
	t.Helper()
	samples := []tensor.Values{sampleTensor(0), sampleTensor(1), sampleTensor(2), sampleTensor(3)}
	bt, err := BatchToTensor(samples, []int32{0, 1, 0, 1}, 2)
	require.NoError(t, err)
	bt.Carry = idCarry{"s0", "s1", "s2", "s3"}
	return bt
}

func TestBatchSub(t *testing.T) {
	src := testBatch(t)
	sub := &Batch{}
	require.NoError(t, sub.Sub(src, 1, 3))

	assert.Equal(t, 2, sub.Size())
	assert.Equal(t, 1.0, sub.Input.Float(0, 0, 0))
	assert.Equal(t, 2.0, sub.Input.Float(1, 0, 0))
	assert.Equal(t, []int32{1, 0}, sub.Labels.Values)
	assert.Equal(t, []float32{-1, 1, 1, -1}, sub.MultiHot.Values)
	assert.Equal(t, idCarry{"s1", "s2"}, sub.Carry)

	// src untouched
	assert.Equal(t, 4, src.Size())

	assert.ErrorIs(t, sub.Sub(src, 3, 1), ErrIndexRange)
	assert.ErrorIs(t, sub.Sub(src, 0, 5), ErrIndexRange)
}

func TestBatchIndex(t *testing.T) {
	src := testBatch(t)
	dst := &Batch{}
	require.NoError(t, dst.Index(src, []int{3, 3, 0}))

	assert.Equal(t, 3, dst.Size())
	assert.Equal(t, 3.0, dst.Input.Float(0, 0, 0))
	assert.Equal(t, 3.0, dst.Input.Float(1, 0, 0))
	assert.Equal(t, 0.0, dst.Input.Float(2, 0, 0))
	assert.Equal(t, []int32{1, 1, 0}, dst.Labels.Values)
	assert.Equal(t, idCarry{"s3", "s3", "s0"}, dst.Carry)

	assert.ErrorIs(t, dst.Index(src, []int{4}), ErrIndexRange)
	assert.ErrorIs(t, dst.Index(src, []int{-1}), ErrIndexRange)
}

func TestBatchBufferReuse(t *testing.T) {
	src := testBatch(t)
	dst := &Batch{}
	require.NoError(t, dst.Sub(src, 0, 3))
	input, labels, mh := dst.Input, dst.Labels, dst.MultiHot

	// same-typed buffers are reused across rewrites
	require.NoError(t, dst.Index(src, []int{2, 1}))
	assert.Same(t, input, dst.Input)
	assert.Same(t, labels, dst.Labels)
	assert.Same(t, mh, dst.MultiHot)
	assert.Equal(t, 2, dst.Size())
	assert.Equal(t, []int32{0, 1}, dst.Labels.Values)
}
