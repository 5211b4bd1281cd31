// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"cogentcore.org/vision/base/errors"
	"gonum.org/v1/gonum/mat"
)

// Dims is the gonum/mat.Matrix interface method for returning the
// dimensionality of the 2D Matrix. Assumes row-major ordering and
// logs an error if NumDims < 2.
func (tsr *Number[T]) Dims() (r, c int) {
	nd := tsr.NumDims()
	if nd < 2 {
		errors.Log(errors.New("tensor Dims gonum Matrix call made on Tensor with dims < 2"))
		return 0, 0
	}
	return tsr.DimSize(nd - 2), tsr.DimSize(nd - 1)
}

// At is the gonum/mat.Matrix interface method for returning the
// float64 value at given row, column index, using the last two
// dimensions of the tensor.
func (tsr *Number[T]) At(i, j int) float64 {
	nd := tsr.NumDims()
	if nd < 2 {
		errors.Log(errors.New("tensor At gonum Matrix call made on Tensor with dims < 2"))
		return 0
	}
	if nd == 2 {
		return tsr.Float(i, j)
	}
	ix := make([]int, nd)
	ix[nd-2] = i
	ix[nd-1] = j
	return tsr.Float(ix...)
}

// T is the gonum/mat.Matrix transpose method.
// It performs an implicit transpose by returning the receiver
// inside a mat.Transpose.
func (tsr *Number[T]) T() mat.Matrix {
	return mat.Transpose{Matrix: tsr}
}
