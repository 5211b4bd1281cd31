// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strtab

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	strs := []string{"a", "longer/path.png", "", "mid.jpg"}
	tb := NewTable(strs)

	assert.Equal(t, 4, tb.Len())
	assert.Equal(t, 16, tb.Width) // longest + terminator
	assert.Equal(t, int64(64), tb.Sizeof())
	for i, s := range strs {
		assert.Equal(t, s, tb.At(i))
	}
}

func TestNewTableEmpty(t *testing.T) {
	tb := NewTable(nil)
	assert.Equal(t, 0, tb.Len())
	assert.Equal(t, int64(0), tb.Sizeof())
}

func TestBuilder(t *testing.T) {
	bd, err := NewBuilder()
	require.NoError(t, err)
	spool := bd.file.Name()

	strs := make([]string, 100)
	for i := range strs {
		strs[i] = fmt.Sprintf("data/class%02d/img%03d.jpg", i%7, i)
		require.NoError(t, bd.Add(strs[i]))
	}
	assert.Equal(t, 100, bd.Len())

	tb, err := bd.Table()
	require.NoError(t, err)
	assert.Equal(t, 100, tb.Len())
	for i, s := range strs {
		assert.Equal(t, s, tb.At(i))
	}
	// spool removed once the table is built
	assert.NoFileExists(t, spool)
}

func TestBuilderWidth(t *testing.T) {
	bd, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, bd.Add("ab"))
	require.NoError(t, bd.Add("abcdef"))
	require.NoError(t, bd.Add("a"))

	tb, err := bd.Table()
	require.NoError(t, err)
	assert.Equal(t, 7, tb.Width)
	assert.Equal(t, "ab", tb.At(0))
	assert.Equal(t, "abcdef", tb.At(1))
	assert.Equal(t, "a", tb.At(2))
}

func TestBuilderClose(t *testing.T) {
	bd, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, bd.Close())
	require.NoError(t, bd.Close()) // idempotent
}
