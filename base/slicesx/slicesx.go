// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slicesx provides additional slice functions
// beyond those in the standard [slices] package.
package slicesx

import "unsafe"

// SetLength sets the length of the given slice,
// re-using and preserving existing values to the extent possible.
func SetLength[E any](s []E, n int) []E {
	if cap(s) >= n {
		return s[:n]
	}
	ns := make([]E, n)
	copy(ns, s)
	return ns
}

// CopyFrom efficiently copies from src into dest, returning dest,
// which is resized to the length of src if needed.
func CopyFrom[E any](dest []E, src []E) []E {
	dest = SetLength(dest, len(src))
	copy(dest, src)
	return dest
}

// ToBytes returns the underlying bytes of given slice of any
// fixed-size element type. The bytes are the actual underlying data,
// so changes to them will be reflected in the source slice.
func ToBytes[E any](s []E) []byte {
	if len(s) == 0 {
		return nil
	}
	var e E
	es := int(unsafe.Sizeof(e))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*es)
}
