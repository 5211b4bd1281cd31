// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"reflect"
	"slices"
)

// Permute returns a new tensor with the dimensions reordered
// according to the given axes, which must be a permutation of
// 0..NumDims-1: output dimension i is source dimension axes[i].
// The values are physically reordered into standard row-major
// layout for the new shape (i.e., the result is contiguous).
func Permute(src Values, axes ...int) (Values, error) {
	nd := src.NumDims()
	if err := checkPermutation(nd, axes); err != nil {
		return nil, err
	}
	osz := make([]int, nd)
	for i, ax := range axes {
		osz[i] = src.DimSize(ax)
	}
	out := NewOfType(src.DataType(), osz...)
	osh := out.Shape()
	sidx := make([]int, nd)
	n := out.Len()
	isInt := KindIsInt(src.DataType())
	for o := 0; o < n; o++ {
		oidx := osh.IndexFrom1D(o)
		for i, ax := range axes {
			sidx[ax] = oidx[i]
		}
		if isInt {
			out.SetInt1D(src.Int(sidx...), o)
		} else {
			out.SetFloat1D(src.Float(sidx...), o)
		}
	}
	return out, nil
}

// InvertPermutation returns the inverse of the given axis
// permutation: applying the result after the original yields
// the identity ordering.
func InvertPermutation(axes []int) []int {
	inv := make([]int, len(axes))
	for i, ax := range axes {
		inv[ax] = i
	}
	return inv
}

// checkPermutation returns an error if axes is not a valid
// permutation of 0..nd-1.
func checkPermutation(nd int, axes []int) error {
	if len(axes) != nd {
		return fmt.Errorf("tensor: permutation has %d axes for %d dimensions", len(axes), nd)
	}
	seen := make([]bool, nd)
	for _, ax := range axes {
		if ax < 0 || ax >= nd || seen[ax] {
			return fmt.Errorf("tensor: invalid permutation %v", axes)
		}
		seen[ax] = true
	}
	return nil
}

// Reshape returns a new tensor sharing no storage with the source,
// with the given shape sizes, which must have the same total length
// as the source. The row-major value ordering is preserved.
func Reshape(src Values, sizes ...int) (Values, error) {
	nsh := NewShape(sizes...)
	if nsh.Len() != src.Len() {
		return nil, fmt.Errorf("tensor: reshape length %d != source length %d", nsh.Len(), src.Len())
	}
	out := src.Clone()
	out.SetShapeSizes(sizes...)
	return out, nil
}

// CastTo returns a new tensor of the given data type, with values
// converted from the source. If the source is already of the given
// type, a clone is still returned, so the result is always
// independently mutable.
func CastTo(src Values, typ reflect.Kind) Values {
	if src.DataType() == typ {
		return src.Clone()
	}
	out := NewOfType(typ, src.Shape().Sizes...)
	out.CopyFrom(src)
	return out
}

// Add adds the values of the src tensor into the dst tensor,
// element-wise. The shapes must be equal.
func Add(dst, src Values) error {
	if !dst.Shape().IsEqual(src.Shape()) {
		return fmt.Errorf("tensor: add shape %s != %s", dst.Shape(), src.Shape())
	}
	n := dst.Len()
	if KindIsInt(dst.DataType()) && KindIsInt(src.DataType()) {
		for i := 0; i < n; i++ {
			dst.SetInt1D(dst.Int1D(i)+src.Int1D(i), i)
		}
		return nil
	}
	for i := 0; i < n; i++ {
		dst.SetFloat1D(dst.Float1D(i)+src.Float1D(i), i)
	}
	return nil
}

// GatherAlong returns a new tensor assembled from the source by
// taking, along the given axis, the source positions listed in
// indices, in exactly that order. Indices may repeat. The result
// has the same shape as the source except the given axis has
// size len(indices).
func GatherAlong(src Values, axis int, indices []int) (Values, error) {
	nd := src.NumDims()
	if axis < 0 || axis >= nd {
		return nil, fmt.Errorf("tensor: gather axis %d out of range for %d dimensions", axis, nd)
	}
	for _, ix := range indices {
		if ix < 0 || ix >= src.DimSize(axis) {
			return nil, fmt.Errorf("tensor: gather index %d out of range [0, %d)", ix, src.DimSize(axis))
		}
	}
	osz := slices.Clone(src.Shape().Sizes)
	osz[axis] = len(indices)
	out := NewOfType(src.DataType(), osz...)
	osh := out.Shape()
	sidx := make([]int, nd)
	n := out.Len()
	isInt := KindIsInt(src.DataType())
	for o := 0; o < n; o++ {
		oidx := osh.IndexFrom1D(o)
		copy(sidx, oidx)
		sidx[axis] = indices[oidx[axis]]
		if isInt {
			out.SetInt1D(src.Int(sidx...), o)
		} else {
			out.SetFloat1D(src.Float(sidx...), o)
		}
	}
	return out, nil
}

// SliceAlong returns a new tensor taking the contiguous range
// [start, stop) of the source along the given axis.
func SliceAlong(src Values, axis, start, stop int) (Values, error) {
	if axis < 0 || axis >= src.NumDims() {
		return nil, fmt.Errorf("tensor: slice axis %d out of range for %d dimensions", axis, src.NumDims())
	}
	if start < 0 || stop > src.DimSize(axis) || start > stop {
		return nil, fmt.Errorf("tensor: slice range [%d, %d) invalid for axis size %d", start, stop, src.DimSize(axis))
	}
	ixs := make([]int, stop-start)
	for i := range ixs {
		ixs[i] = start + i
	}
	return GatherAlong(src, axis, ixs)
}
