// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSysRandSeeded(t *testing.T) {
	r1 := NewSysRand(17)
	r2 := NewSysRand(17)
	for _i := 0; _i < 100; _i++ {
		assert.Equal(t, r1.Intn(1000), r2.Intn(1000))
	}
	assert.Equal(t, r1.Perm(20), r2.Perm(20))
	assert.Equal(t, r1.Float64(), r2.Float64())
}

func TestSysRandReseed(t *testing.T) {
	r := NewSysRand(3)
	a := make([]int, 10)
	for i := range a {
		a[i] = r.Intn(1000)
	}
	r.Seed(3)
	for i := range a {
		assert.Equal(t, a[i], r.Intn(1000))
	}
}

func TestGlobalRand(t *testing.T) {
	r := NewGlobalRand()
	assert.Nil(t, r.Rand)
	for _i := 0; _i < 100; _i++ {
		v := r.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
	sh := r.Perm(50)
	seen := make(map[int]bool, 50)
	for _, v := range sh {
		seen[v] = true
	}
	assert.Len(t, seen, 50)
}
