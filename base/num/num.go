// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package num provides generic type constraints for numeric types.
package num

// Float is a constraint for the floating point types.
type Float interface {
	~float32 | ~float64
}

// Integer is a constraint for the signed and unsigned integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Number is a constraint for all numeric types.
type Number interface {
	Float | Integer
}
