// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"reflect"
	"testing"

	"cogentcore.org/vision/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqTensor returns a float64 tensor of given sizes with values 0..n-1.
func seqTensor(sizes ...int) tensor.Values {
	tsr := tensor.NewFloat64(sizes...)
	for i := 0; i < tsr.Len(); i++ {
		tsr.SetFloat1D(float64(i), i)
	}
	return tsr
}

func TestForwardRoundTrip(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(2, 3, 2, 2)
	require.NoError(t, vw.ForwardPut("bchw", tsr))

	got, err := vw.ForwardGet("bchw", reflect.Float64)
	require.NoError(t, err)
	assert.Equal(t, tsr.Shape().Sizes, got.Shape().Sizes)
	for i := 0; i < tsr.Len(); i++ {
		assert.Equal(t, tsr.Float1D(i), got.Float1D(i))
	}
}

func TestForwardPutRankMismatch(t *testing.T) {
	vw := NewView()
	err := vw.ForwardPut("bch", seqTensor(2, 3, 2, 2))
	assert.ErrorIs(t, err, ErrLayoutRank)

	err = vw.ForwardPut("bcch", seqTensor(2, 3, 2, 2))
	assert.ErrorIs(t, err, ErrLayoutRank)
}

func TestBatchFeatureCollapse(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(2, 3, 2, 2)
	require.NoError(t, vw.ForwardPut("bchw", tsr))

	bf, err := vw.ForwardGet("bf", reflect.Float64)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 12}, bf.Shape().Sizes)
	// batch is already outermost: collapse preserves flat order.
	for i := 0; i < 24; i++ {
		assert.Equal(t, float64(i), bf.Float1D(i))
	}
}

func TestBatchFeatureCollapseBatchNotFirst(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(3, 2, 4) // c, b, w
	require.NoError(t, vw.ForwardPut("cbw", tsr))

	bf, err := vw.ForwardGet("bf", reflect.Float64)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 12}, bf.Shape().Sizes)
	// row b of the result is the (c, w) plane for that batch in
	// declared axis order: value at (b, c*4+w) == source (c, b, w).
	for b := 0; b < 2; b++ {
		for c := 0; c < 3; c++ {
			for w := 0; w < 4; w++ {
				assert.Equal(t, tsr.Float(c, b, w), bf.Float(b, c*4+w))
			}
		}
	}
}

func TestForwardGetCaching(t *testing.T) {
	vw := NewView()
	require.NoError(t, vw.ForwardPut("bchw", seqTensor(2, 3, 2, 2)))

	a, err := vw.ForwardGet("bf", reflect.Float32)
	require.NoError(t, err)
	b, err := vw.ForwardGet("bf", reflect.Float32)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, vw.pipelines["bf"].Runs)

	// a second type re-runs the pipeline but reuses it
	_, err = vw.ForwardGet("bf", reflect.Float64)
	require.NoError(t, err)
	assert.Equal(t, 2, vw.pipelines["bf"].Runs)

	// a new pass resets the tensor cache but keeps the pipeline
	require.NoError(t, vw.ForwardPut("bchw", seqTensor(2, 3, 2, 2)))
	c, err := vw.ForwardGet("bf", reflect.Float32)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 3, vw.pipelines["bf"].Runs)
}

func TestBackwardSingle(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(2, 3, 2, 2)
	require.NoError(t, vw.ForwardPut("bchw", tsr))
	_, err := vw.ForwardGet("bf", reflect.Float64)
	require.NoError(t, err)

	g := tensor.NewFloat64(2, 12)
	for i := 0; i < g.Len(); i++ {
		g.SetFloat1D(float64(i), i)
	}
	require.NoError(t, vw.BackwardPut("bf", g))

	cg, err := vw.BackwardGet(reflect.Float64)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 2, 2}, cg.Shape().Sizes)
	for i := 0; i < 24; i++ {
		assert.Equal(t, float64(i), cg.Float1D(i))
	}
}

func TestBackwardFanOutAccumulation(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(2, 3, 2, 2)
	require.NoError(t, vw.ForwardPut("bchw", tsr))

	_, err := vw.ForwardGet("bf", reflect.Float64)
	require.NoError(t, err)
	_, err = vw.ForwardGet("bf", reflect.Float64)
	require.NoError(t, err)

	g1 := tensor.NewFloat64(2, 12)
	g2 := tensor.NewFloat64(2, 12)
	for i := 0; i < 24; i++ {
		g1.SetFloat1D(1, i)
		g2.SetFloat1D(2, i)
	}
	require.NoError(t, vw.BackwardPut("bf", g1))
	require.NoError(t, vw.BackwardPut("bf", g2))

	cg, err := vw.BackwardGet(reflect.Float64)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 2, 2}, cg.Shape().Sizes)
	for i := 0; i < 24; i++ {
		assert.Equal(t, 3.0, cg.Float1D(i))
	}
}

func TestBackwardTypeMismatch(t *testing.T) {
	vw := NewView()
	require.NoError(t, vw.ForwardPut("bchw", seqTensor(2, 3, 2, 2)))
	g := tensor.NewFloat64(2, 12)
	require.NoError(t, vw.BackwardPut("bf", g))
	_, err := vw.BackwardGet(reflect.Float32)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBackwardPermutedLayout(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(2, 3, 4) // b, c, w
	require.NoError(t, vw.ForwardPut("bcw", tsr))

	cw, err := vw.ForwardGet("cbw", reflect.Float64)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 4}, cw.Shape().Sizes)
	for b := 0; b < 2; b++ {
		for c := 0; c < 3; c++ {
			for w := 0; w < 4; w++ {
				assert.Equal(t, tsr.Float(b, c, w), cw.Float(c, b, w))
			}
		}
	}

	// gradient identical to the permuted view must come back as the source
	require.NoError(t, vw.BackwardPut("cbw", cw))
	cg, err := vw.BackwardGet(reflect.Float64)
	require.NoError(t, err)
	for i := 0; i < tsr.Len(); i++ {
		assert.Equal(t, tsr.Float1D(i), cg.Float1D(i))
	}
}

func TestPassReset(t *testing.T) {
	vw := NewView()
	require.NoError(t, vw.ForwardPut("bchw", seqTensor(2, 3, 2, 2)))
	g := tensor.NewFloat64(2, 12)
	require.NoError(t, vw.BackwardPut("bf", g))

	// new pass: old gradients must be gone
	require.NoError(t, vw.ForwardPut("bchw", seqTensor(2, 3, 2, 2)))
	_, err := vw.BackwardGet(reflect.Float64)
	assert.Error(t, err)
}

func TestIndexAlongBatch(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(4, 2) // b, f
	require.NoError(t, vw.ForwardPut("bf", tsr))

	nv, err := vw.IndexAlongBatch([]int{3, 1, 2})
	require.NoError(t, err)
	got := nv.Canonical()
	assert.Equal(t, []int{3, 2}, got.Shape().Sizes)
	assert.Equal(t, tsr.Float(3, 0), got.Float(0, 0))
	assert.Equal(t, tsr.Float(1, 0), got.Float(1, 0))
	assert.Equal(t, tsr.Float(2, 1), got.Float(2, 1))
}

func TestIndexAlongBatchInnerAxis(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(3, 4) // c, b: batch not outermost
	require.NoError(t, vw.ForwardPut("cb", tsr))

	nv, err := vw.IndexAlongBatch([]int{2, 0})
	require.NoError(t, err)
	got := nv.Canonical()
	assert.Equal(t, []int{3, 2}, got.Shape().Sizes)
	for c := 0; c < 3; c++ {
		assert.Equal(t, tsr.Float(c, 2), got.Float(c, 0))
		assert.Equal(t, tsr.Float(c, 0), got.Float(c, 1))
	}
}

func TestSliceAlongBatch(t *testing.T) {
	vw := NewView()
	tsr := seqTensor(4, 2)
	require.NoError(t, vw.ForwardPut("bf", tsr))

	nv, err := vw.SliceAlongBatch(1, 3)
	require.NoError(t, err)
	got := nv.Canonical()
	assert.Equal(t, []int{2, 2}, got.Shape().Sizes)
	assert.Equal(t, tsr.Float(1, 0), got.Float(0, 0))
	assert.Equal(t, tsr.Float(2, 1), got.Float(1, 1))
}

func TestNoBatchAxis(t *testing.T) {
	vw := NewView()
	require.NoError(t, vw.ForwardPut("chw", seqTensor(3, 2, 2)))
	_, err := vw.IndexAlongBatch([]int{0})
	assert.ErrorIs(t, err, ErrNoBatchAxis)
	_, err = vw.SliceAlongBatch(0, 1)
	assert.ErrorIs(t, err, ErrNoBatchAxis)
}

func TestPipelineString(t *testing.T) {
	pl, err := BuildPipeline("cbw", []int{3, 2, 4}, "bf")
	require.NoError(t, err)
	assert.Equal(t, "bf: permute[1 0 2] -> reshape[2 3 4]->[2 12]", pl.String())

	id, err := BuildPipeline("bchw", []int{2, 3, 2, 2}, "bchw")
	require.NoError(t, err)
	assert.Equal(t, "bchw: identity", id.String())
}

func TestBuildPipelineErrors(t *testing.T) {
	_, err := BuildPipeline("bchw", []int{2, 3, 2, 2}, "bfg")
	assert.ErrorIs(t, err, ErrLayoutRank)
	_, err = BuildPipeline("bchw", []int{2, 3, 2, 2}, "bch")
	assert.ErrorIs(t, err, ErrLayoutRank)
	_, err = BuildPipeline("bchw", []int{2, 3, 2, 2}, "bchwf")
	assert.ErrorIs(t, err, ErrLayoutRank)
	_, err = BuildPipeline("bchw", []int{2, 3, 2, 2}, "bb")
	assert.ErrorIs(t, err, ErrLayoutRank)
}
