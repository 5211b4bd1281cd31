// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensor provides n-dimensional numeric tensors with
// row-major [Shape] indexing, generic value storage, and the
// reshaping, permutation, gathering, and type-conversion
// operations needed for exchanging training batches between
// model stages under different axis layouts.
package tensor

import (
	"fmt"
	"reflect"

	"cogentcore.org/vision/base/num"
)

// DataTypes are the tensor data types with specific support.
type DataTypes interface {
	float32 | float64 | int | int32 | byte
}

// Values is the interface for n-dimensional tensors of numeric
// values. Per C / Go / Python conventions, indexes are row-major,
// ordered from outer to inner left-to-right, so the inner-most is
// right-most. It is implemented by the [Number] generic type
// specialized by different concrete types: float64, float32, int,
// int32, byte.
type Values interface {
	fmt.Stringer

	// Label satisfies the Labeler interface for a summary description of the tensor.
	Label() string

	// Shape returns a pointer to the Shape that fully parametrizes
	// the tensor shape.
	Shape() *Shape

	// SetShapeSizes sets the dimension sizes of the tensor, and resizes
	// backing storage appropriately, retaining all existing data that fits.
	SetShapeSizes(sizes ...int)

	// Len returns the number of elements in the tensor,
	// which is the product of all shape dimensions.
	Len() int

	// NumDims returns the total number of dimensions.
	NumDims() int

	// DimSize returns size of given dimension.
	DimSize(dim int) int

	// RowCellSize returns the size of the outermost Row shape dimension,
	// and the size of all the remaining inner dimensions (the "cell" size).
	RowCellSize() (rows, cells int)

	// DataType returns the type of the data elements in the tensor.
	DataType() reflect.Kind

	// Sizeof returns the number of bytes contained in the Values of this tensor.
	Sizeof() int64

	// Bytes returns the underlying byte representation of the tensor values.
	// This is the actual underlying data, so make a copy if it can be
	// unintentionally modified or retained more than for immediate use.
	Bytes() []byte

	// Float returns the value of given n-dimensional index (matching Shape) as a float64.
	Float(i ...int) float64

	// SetFloat sets the value of given n-dimensional index (matching Shape) as a float64.
	SetFloat(val float64, i ...int)

	// Float1D returns the value of given 1-dimensional index (0-Len()-1) as a float64.
	Float1D(i int) float64

	// SetFloat1D sets the value of given 1-dimensional index (0-Len()-1) as a float64.
	SetFloat1D(val float64, i int)

	// Int returns the value of given n-dimensional index (matching Shape) as an int.
	Int(i ...int) int

	// SetInt sets the value of given n-dimensional index (matching Shape) as an int.
	SetInt(val int, i ...int)

	// Int1D returns the value of given 1-dimensional index (0-Len()-1) as an int.
	Int1D(i int) int

	// SetInt1D sets the value of given 1-dimensional index (0-Len()-1) as an int.
	SetInt1D(val int, i int)

	// SetZeros is a convenience function to initialize all values to zero.
	SetZeros()

	// Clone clones this tensor, creating a duplicate copy of itself with its
	// own separate memory representation of all the values.
	Clone() Values

	// CopyFrom copies all values from other tensor into this tensor, with an
	// optimized implementation if the other tensor is of the same type, and
	// otherwise it goes through the appropriate standard type (Float, Int).
	CopyFrom(from Values)

	// CopyCellsFrom copies given range of values from other tensor into this tensor,
	// using flat 1D indexes: to = starting index in this Tensor to start copying into,
	// start = starting index on from Tensor to start copying from, and n = number of
	// values to copy.
	CopyCellsFrom(from Values, to, start, n int)

	// SubSpace returns a new tensor with innermost subspace at given
	// offset(s) in outermost dimension(s) (len(offs) < [Values.NumDims]).
	// The new tensor points to the values of the this tensor (i.e., modifications
	// will affect both), as its Values slice is a view onto the original.
	SubSpace(offs ...int) Values

	// SetNumRows sets the number of rows (outermost dimension),
	// retaining existing data that fits.
	SetNumRows(rows int)
}

// New returns a new n-dimensional tensor of given value type
// with the given sizes per dimension (shape).
func New[T DataTypes](sizes ...int) Values {
	var v T
	switch any(v).(type) {
	case float64:
		return NewNumber[float64](sizes...)
	case float32:
		return NewNumber[float32](sizes...)
	case int:
		return NewNumber[int](sizes...)
	case int32:
		return NewNumber[int32](sizes...)
	case byte:
		return NewNumber[byte](sizes...)
	default:
		panic("tensor.New: unexpected error: type not supported")
	}
}

// NewOfType returns a new n-dimensional tensor of given reflect.Kind type
// with the given sizes per dimension (shape).
// Supported types are float32, float64, int, int32, and byte (uint8).
func NewOfType(typ reflect.Kind, sizes ...int) Values {
	switch typ {
	case reflect.Float64:
		return NewNumber[float64](sizes...)
	case reflect.Float32:
		return NewNumber[float32](sizes...)
	case reflect.Int:
		return NewNumber[int](sizes...)
	case reflect.Int32:
		return NewNumber[int32](sizes...)
	case reflect.Uint8:
		return NewNumber[byte](sizes...)
	default:
		panic(fmt.Sprintf("tensor.NewOfType: type not supported: %v", typ))
	}
}

// NewNumberFromValues returns a new 1-dimensional tensor of given value type
// initialized directly from the given slice values, which are not copied.
// The resulting Tensor thus "wraps" the given values.
func NewNumberFromValues[T num.Number](vals ...T) *Number[T] {
	n := len(vals)
	tsr := &Number[T]{}
	tsr.Values = vals
	tsr.shape.SetShapeSizes(n)
	return tsr
}
