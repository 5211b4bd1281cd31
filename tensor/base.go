// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"reflect"
	"unsafe"

	"cogentcore.org/vision/base/slicesx"
)

// Base is the generic base type for all tensors, providing
// the shape and generic value storage.
type Base[T any] struct {
	shape  Shape
	Values []T
}

// Shape returns a pointer to the shape that fully parametrizes the tensor shape.
func (tsr *Base[T]) Shape() *Shape { return &tsr.shape }

// Len returns the number of elements in the tensor (product of shape dimensions).
func (tsr *Base[T]) Len() int { return tsr.shape.Len() }

// NumDims returns the total number of dimensions.
func (tsr *Base[T]) NumDims() int { return tsr.shape.NumDims() }

// DimSize returns size of given dimension.
func (tsr *Base[T]) DimSize(dim int) int { return tsr.shape.DimSize(dim) }

// RowCellSize returns the size of the outermost Row shape dimension,
// and the size of all the remaining inner dimensions (the "cell" size).
func (tsr *Base[T]) RowCellSize() (rows, cells int) {
	return tsr.shape.RowCellSize()
}

// DataType returns the type of the data elements in the tensor.
func (tsr *Base[T]) DataType() reflect.Kind {
	var v T
	return reflect.TypeOf(v).Kind()
}

// Sizeof returns the number of bytes contained in the Values of this tensor.
func (tsr *Base[T]) Sizeof() int64 {
	var v T
	return int64(unsafe.Sizeof(v)) * int64(tsr.Len())
}

// Bytes returns the underlying byte representation of the tensor values.
func (tsr *Base[T]) Bytes() []byte {
	return slicesx.ToBytes(tsr.Values)
}

// Value returns the value of given n-dimensional index (matching Shape).
func (tsr *Base[T]) Value(i ...int) T { return tsr.Values[tsr.shape.IndexTo1D(i...)] }

// Value1D returns the value of given 1-dimensional index (0-Len()-1).
func (tsr *Base[T]) Value1D(i int) T { return tsr.Values[i] }

// Set sets the value of given n-dimensional index (matching Shape).
func (tsr *Base[T]) Set(val T, i ...int) { tsr.Values[tsr.shape.IndexTo1D(i...)] = val }

// Set1D sets the value of given 1-dimensional index (0-Len()-1).
func (tsr *Base[T]) Set1D(val T, i int) { tsr.Values[i] = val }

// SetShapeSizes sets the dimension sizes, resizing backing storage appropriately.
func (tsr *Base[T]) SetShapeSizes(sizes ...int) {
	tsr.shape.SetShapeSizes(sizes...)
	tsr.Values = slicesx.SetLength(tsr.Values, tsr.Len())
}

// SetNumRows sets the number of rows (outermost dimension).
func (tsr *Base[T]) SetNumRows(rows int) {
	rows = max(1, rows) // must be > 0
	_, cells := tsr.shape.RowCellSize()
	tsr.shape.Sizes[0] = rows
	tsr.shape.Strides = RowMajorStrides(tsr.shape.Sizes...)
	tsr.Values = slicesx.SetLength(tsr.Values, rows*cells)
}

// subSpaceImpl returns a new Base with innermost subspace at given
// offset(s) in outermost dimension(s) (len(offs) < NumDims).
// The new tensor points to the values of the this tensor, as its
// Values slice is a view onto the original (which is why only
// inner-most contiguous subspaces are supported).
func (tsr *Base[T]) subSpaceImpl(offs ...int) *Base[T] {
	nd := tsr.NumDims()
	od := len(offs)
	if od >= nd {
		return nil
	}
	stsr := &Base[T]{}
	stsr.shape.SetShapeSizes(tsr.shape.Sizes[od:]...)
	sti := make([]int, nd)
	copy(sti, offs)
	stoff := tsr.shape.IndexTo1D(sti...)
	sln := stsr.Len()
	stsr.Values = tsr.Values[stoff : stoff+sln]
	return stsr
}

// Label satisfies the Labeler interface for a summary description of the tensor.
func (tsr *Base[T]) Label() string {
	return fmt.Sprintf("Tensor: %s", tsr.shape.String())
}
