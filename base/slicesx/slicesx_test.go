// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slicesx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLength(t *testing.T) {
	var s []int
	s = SetLength(s, 3)
	assert.Equal(t, 3, len(s))

	s[2] = 2
	s = SetLength(s, 40)
	assert.Equal(t, 40, len(s))
	assert.Equal(t, 2, s[2])

	s = SetLength(s, 4)
	assert.Equal(t, 4, len(s))
	assert.Equal(t, 2, s[2])
}

func TestCopyFrom(t *testing.T) {
	src := []float32{1, 2, 3}
	var dest []float32
	dest = CopyFrom(dest, src)
	assert.Equal(t, src, dest)

	dest = CopyFrom(dest, []float32{4})
	assert.Equal(t, []float32{4}, dest)
}

func TestToBytes(t *testing.T) {
	s := []int32{1, 2}
	b := ToBytes(s)
	assert.Equal(t, 8, len(b))

	b[0] = 3 // shares the underlying data
	assert.Equal(t, int32(3), s[0])

	assert.Nil(t, ToBytes[int32](nil))
}
