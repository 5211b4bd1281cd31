// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"reflect"
	"strings"

	"cogentcore.org/vision/base/num"
)

// Number is a tensor of numerical values.
type Number[T num.Number] struct {
	Base[T]
}

// Float64 is an alias for Number[float64].
type Float64 = Number[float64]

// Float32 is an alias for Number[float32].
type Float32 = Number[float32]

// Int is an alias for Number[int].
type Int = Number[int]

// Int32 is an alias for Number[int32].
type Int32 = Number[int32]

// Byte is an alias for Number[byte].
type Byte = Number[byte]

// NewFloat32 returns a new [Float32] tensor
// with the given sizes per dimension (shape).
func NewFloat32(sizes ...int) *Float32 {
	return NewNumber[float32](sizes...)
}

// NewFloat64 returns a new [Float64] tensor
// with the given sizes per dimension (shape).
func NewFloat64(sizes ...int) *Float64 {
	return NewNumber[float64](sizes...)
}

// NewInt returns a new [Int] tensor
// with the given sizes per dimension (shape).
func NewInt(sizes ...int) *Int {
	return NewNumber[int](sizes...)
}

// NewInt32 returns a new [Int32] tensor
// with the given sizes per dimension (shape).
func NewInt32(sizes ...int) *Int32 {
	return NewNumber[int32](sizes...)
}

// NewByte returns a new [Byte] tensor
// with the given sizes per dimension (shape).
func NewByte(sizes ...int) *Byte {
	return NewNumber[uint8](sizes...)
}

// NewNumber returns a new n-dimensional tensor of numerical values
// with the given sizes per dimension (shape).
func NewNumber[T num.Number](sizes ...int) *Number[T] {
	tsr := &Number[T]{}
	tsr.SetShapeSizes(sizes...)
	return tsr
}

// NewNumberShape returns a new n-dimensional tensor of numerical values
// using given shape.
func NewNumberShape[T num.Number](shape *Shape) *Number[T] {
	tsr := &Number[T]{}
	tsr.shape.CopyFrom(shape)
	tsr.Values = make([]T, tsr.Len())
	return tsr
}

// String satisfies the fmt.Stringer interface for string of tensor data.
func (tsr *Number[T]) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s [", tsr.Label())
	mx := min(tsr.Len(), 32)
	for i := 0; i < mx; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(b, "%g", tsr.Float1D(i))
	}
	if tsr.Len() > mx {
		b.WriteString(" ...")
	}
	b.WriteString("]")
	return b.String()
}

// Float returns the value of given n-dimensional index (matching Shape) as a float64.
func (tsr *Number[T]) Float(i ...int) float64 {
	return float64(tsr.Values[tsr.shape.IndexTo1D(i...)])
}

// SetFloat sets the value of given n-dimensional index (matching Shape) as a float64.
func (tsr *Number[T]) SetFloat(val float64, i ...int) {
	tsr.Values[tsr.shape.IndexTo1D(i...)] = T(val)
}

// Float1D returns the value of given 1-dimensional index (0-Len()-1) as a float64.
func (tsr *Number[T]) Float1D(i int) float64 {
	return float64(tsr.Values[i])
}

// SetFloat1D sets the value of given 1-dimensional index (0-Len()-1) as a float64.
func (tsr *Number[T]) SetFloat1D(val float64, i int) {
	tsr.Values[i] = T(val)
}

// Int returns the value of given n-dimensional index (matching Shape) as an int.
func (tsr *Number[T]) Int(i ...int) int {
	return int(tsr.Values[tsr.shape.IndexTo1D(i...)])
}

// SetInt sets the value of given n-dimensional index (matching Shape) as an int.
func (tsr *Number[T]) SetInt(val int, i ...int) {
	tsr.Values[tsr.shape.IndexTo1D(i...)] = T(val)
}

// Int1D returns the value of given 1-dimensional index (0-Len()-1) as an int.
func (tsr *Number[T]) Int1D(i int) int {
	return int(tsr.Values[i])
}

// SetInt1D sets the value of given 1-dimensional index (0-Len()-1) as an int.
func (tsr *Number[T]) SetInt1D(val int, i int) {
	tsr.Values[i] = T(val)
}

// SetZeros is a convenience function to initialize all values to zero.
func (tsr *Number[T]) SetZeros() {
	for i := range tsr.Values {
		tsr.Values[i] = 0
	}
}

// Clone clones this tensor, creating a duplicate copy of itself with its
// own separate memory representation of all the values.
func (tsr *Number[T]) Clone() Values {
	csr := NewNumberShape[T](&tsr.shape)
	copy(csr.Values, tsr.Values)
	return csr
}

// CopyFrom copies all values from other tensor into this tensor, with an
// optimized implementation if the other tensor is of the same type, and
// otherwise it goes through the appropriate standard type (Float, Int).
func (tsr *Number[T]) CopyFrom(frm Values) {
	if fsm, ok := frm.(*Number[T]); ok {
		copy(tsr.Values, fsm.Values)
		return
	}
	sz := min(tsr.Len(), frm.Len())
	if KindIsInt(tsr.DataType()) && KindIsInt(frm.DataType()) {
		for i := 0; i < sz; i++ {
			tsr.Values[i] = T(frm.Int1D(i))
		}
	} else {
		for i := 0; i < sz; i++ {
			tsr.Values[i] = T(frm.Float1D(i))
		}
	}
}

// CopyCellsFrom copies given range of values from other tensor into this tensor,
// using flat 1D indexes: to = starting index in this Tensor to start copying into,
// start = starting index on from Tensor to start copying from, and n = number of
// values to copy. Uses an optimized implementation if the other tensor is
// of the same type, and otherwise it goes through appropriate standard type.
func (tsr *Number[T]) CopyCellsFrom(frm Values, to, start, n int) {
	if fsm, ok := frm.(*Number[T]); ok {
		copy(tsr.Values[to:to+n], fsm.Values[start:start+n])
		return
	}
	for i := 0; i < n; i++ {
		tsr.Values[to+i] = T(frm.Float1D(start + i))
	}
}

// SubSpace returns a new tensor with innermost subspace at given
// offset(s) in outermost dimension(s) (len(offs) < NumDims).
// The new tensor points to the values of the this tensor (i.e., modifications
// will affect both), as its Values slice is a view onto the original.
// Use Clone to separate the two.
func (tsr *Number[T]) SubSpace(offs ...int) Values {
	b := tsr.subSpaceImpl(offs...)
	return &Number[T]{Base: *b}
}

// KindIsInt returns true if the given reflect.Kind is an integer type.
func KindIsInt(vk reflect.Kind) bool {
	return vk >= reflect.Int && vk <= reflect.Uintptr
}

// KindIsFloat returns true if the given reflect.Kind is a floating point type.
func KindIsFloat(vk reflect.Kind) bool {
	return vk == reflect.Float32 || vk == reflect.Float64
}
