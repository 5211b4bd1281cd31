// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strtab provides a fixed-width flat string table,
// storing N strings in one contiguous byte arena with a uniform
// per-string stride. This bounds and compacts memory for very
// large collections of paths (10M+), compared to a slice of
// variable-length Go strings with per-string header overhead.
package strtab

import (
	"bufio"
	"fmt"
	"os"
)

// Table is an immutable fixed-width flat string table.
// String i occupies bytes [i*Width, (i+1)*Width) of the arena,
// NUL-padded at the end. Width is the maximum string length
// observed across the table, plus one terminator slot.
type Table struct {

	// Arena is the flat backing store, of length N * Width.
	Arena []byte

	// Width is the fixed per-string stride in bytes.
	Width int

	// N is the number of strings in the table.
	N int
}

// Len returns the number of strings in the table.
func (tb *Table) Len() int { return tb.N }

// Sizeof returns the number of bytes in the backing arena.
func (tb *Table) Sizeof() int64 { return int64(len(tb.Arena)) }

// At returns the string at the given index.
// It panics if the index is out of range.
func (tb *Table) At(i int) string {
	st := i * tb.Width
	row := tb.Arena[st : st+tb.Width]
	n := 0
	for n < tb.Width && row[n] != 0 {
		n++
	}
	return string(row[:n])
}

// NewTable returns a table built directly from the given strings,
// for cases where they are already in memory.
func NewTable(strs []string) *Table {
	w := 1
	for _, s := range strs {
		if len(s)+1 > w {
			w = len(s) + 1
		}
	}
	tb := &Table{Arena: make([]byte, len(strs)*w), Width: w, N: len(strs)}
	for i, s := range strs {
		copy(tb.Arena[i*w:], s)
	}
	return tb
}

// Builder accumulates strings into a temporary spool file,
// tracking the count and maximum length, and then builds the
// final fixed-width [Table] in one pass over the spool.
// Only one string at a time is held in memory while building,
// so the peak footprint is the final arena itself.
// Strings must not contain newlines (true of file paths on
// the platforms supported here).
type Builder struct {
	file   *os.File
	buf    *bufio.Writer
	n      int
	maxLen int
}

// NewBuilder returns a new Builder, spooling to a temporary
// file in the default temp directory.
func NewBuilder() (*Builder, error) {
	f, err := os.CreateTemp("", "strtab-*.spool")
	if err != nil {
		return nil, fmt.Errorf("strtab: creating spool file: %w", err)
	}
	return &Builder{file: f, buf: bufio.NewWriter(f)}, nil
}

// Len returns the number of strings added so far.
func (bd *Builder) Len() int { return bd.n }

// Add appends the given string to the builder.
func (bd *Builder) Add(s string) error {
	if _, err := bd.buf.WriteString(s); err != nil {
		return err
	}
	if err := bd.buf.WriteByte('\n'); err != nil {
		return err
	}
	if len(s) > bd.maxLen {
		bd.maxLen = len(s)
	}
	bd.n++
	return nil
}

// Table builds the final fixed-width table from the spooled
// strings, then removes the spool file. The Builder cannot be
// used after calling Table.
func (bd *Builder) Table() (*Table, error) {
	defer bd.Close()
	if err := bd.buf.Flush(); err != nil {
		return nil, err
	}
	if _, err := bd.file.Seek(0, 0); err != nil {
		return nil, err
	}
	w := bd.maxLen + 1
	tb := &Table{Arena: make([]byte, bd.n*w), Width: w, N: bd.n}
	sc := bufio.NewScanner(bd.file)
	sc.Buffer(make([]byte, 0, w), w+1)
	i := 0
	for sc.Scan() {
		if i >= bd.n {
			return nil, fmt.Errorf("strtab: spool has more than %d entries", bd.n)
		}
		copy(tb.Arena[i*w:], sc.Bytes())
		i++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("strtab: reading spool: %w", err)
	}
	if i != bd.n {
		return nil, fmt.Errorf("strtab: spool has %d entries, expected %d", i, bd.n)
	}
	return tb, nil
}

// Close releases the spool file if still open. It is called
// automatically by Table, and is safe to call multiple times.
func (bd *Builder) Close() error {
	if bd.file == nil {
		return nil
	}
	name := bd.file.Name()
	err := bd.file.Close()
	os.Remove(name)
	bd.file = nil
	return err
}
