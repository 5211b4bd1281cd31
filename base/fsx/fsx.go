// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides filesystem enumeration utilities for
// indexing large on-disk datasets. Enumeration streams file paths
// through a callback so that arbitrarily large directory trees
// never need to be materialized in process memory at once.
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Subfolders returns the names of the immediate subdirectories
// of the given root path, in directory (lexical) order.
// Non-directory entries are skipped.
func Subfolders(root string) ([]string, error) {
	ents, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, ent := range ents {
		if ent.IsDir() {
			dirs = append(dirs, ent.Name())
		}
	}
	return dirs, nil
}

// ExtensionSet returns a set of lowercase file extensions
// (including the leading dot) from the given list, which may
// be given with or without leading dots, in any case.
func ExtensionSet(exts ...string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ex := range exts {
		ex = strings.ToLower(ex)
		if !strings.HasPrefix(ex, ".") {
			ex = "." + ex
		}
		set[ex] = true
	}
	return set
}

// HasExtension reports whether the given file name has one of the
// extensions in the given set, matched case-insensitively.
func HasExtension(fname string, exts map[string]bool) bool {
	return exts[strings.ToLower(filepath.Ext(fname))]
}

// WalkFiles walks the directory tree rooted at the given folder,
// calling emit with the full path of every regular file whose
// extension is in the given set (see [ExtensionSet]).
// Files are emitted in lexical walk order. If emit returns an
// error, the walk stops and that error is returned.
// Paths are streamed one at a time and never accumulated here.
func WalkFiles(folder string, exts map[string]bool, emit func(path string) error) error {
	return filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !HasExtension(d.Name(), exts) {
			return nil
		}
		return emit(path)
	})
}

// DirEnumerator enumerates image-like files under class folders,
// using a fixed extension set. It implements the dataset Enumerator
// interface via a native streaming directory walk.
type DirEnumerator struct {

	// Exts is the set of file extensions to match, from [ExtensionSet].
	Exts map[string]bool
}

// NewDirEnumerator returns a DirEnumerator matching the given
// extensions (with or without leading dots, any case).
func NewDirEnumerator(exts ...string) *DirEnumerator {
	return &DirEnumerator{Exts: ExtensionSet(exts...)}
}

// Subfolders returns the immediate subdirectories of root.
func (de *DirEnumerator) Subfolders(root string) ([]string, error) {
	return Subfolders(root)
}

// Files streams all matching file paths under folder to emit.
func (de *DirEnumerator) Files(folder string, emit func(path string) error) error {
	return WalkFiles(folder, de.Exts, emit)
}
