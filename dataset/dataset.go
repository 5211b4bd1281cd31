// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset provides a scalable image-classification
// dataset indexer and sampler. It indexes millions of image files
// on disk without loading them into memory, storing one
// fixed-width path record and one class id per image, with
// per-class contiguous index ranges derived once by running-offset
// arithmetic. Batches are produced by class-balanced or uniform
// random sampling, or by deterministic range / index gathering,
// with decoding delegated to an external image [Codec].
//
// The index structures are read-only after [Build] and may be
// read concurrently by multiple decode workers; each sampling
// call constructs its own [Batch].
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"cogentcore.org/vision/base/randx"
	"cogentcore.org/vision/base/strtab"
	"cogentcore.org/vision/tensor"
	"github.com/dustin/go-humanize"
)

var (
	// ErrEmptyClass indicates a class folder that yielded zero
	// matching image files; fatal to dataset construction.
	ErrEmptyClass = errors.New("dataset: class has no image files")

	// ErrEmptyDataset indicates zero total images across all
	// roots; fatal to dataset construction.
	ErrEmptyDataset = errors.New("dataset: no image files found")

	// ErrIndexRange indicates an out-of-bounds gather or slice.
	ErrIndexRange = errors.New("dataset: index out of range")

	// ErrShapeMismatch indicates inconsistent sample shapes
	// within one batch.
	ErrShapeMismatch = errors.New("dataset: inconsistent sample shapes in batch")

	// ErrUnsupportedMode indicates an unrecognized sampling mode.
	ErrUnsupportedMode = errors.New("dataset: unsupported sampling mode")
)

// DefaultExtensions is the fixed set of image file extensions
// matched when enumerating class folders, case-insensitively.
var DefaultExtensions = []string{"jpg", "png", "jpeg", "ppm", "bmp"}

// Codec decodes and resizes an image file into a pixel tensor in
// a fixed channel order. Decode failures are fatal for the batch
// being assembled; no partial-batch recovery is attempted.
type Codec interface {
	// Decode returns the decoded, resized pixel tensor for the
	// image at the given path, at the given target dimensions.
	Decode(path string, height, width int) (tensor.Values, error)
}

// Enumerator enumerates class folders and the image files under
// them. Implementations must stream file paths through the emit
// callback rather than materializing them, so that corpora of
// tens of millions of files never flood process memory.
// [cogentcore.org/vision/base/fsx.DirEnumerator] is the standard
// implementation.
type Enumerator interface {
	// Subfolders returns the immediate subdirectory names of the
	// given root path, in a deterministic order.
	Subfolders(root string) ([]string, error)

	// Files streams the full paths of all matching image files
	// under the given folder to emit.
	Files(folder string, emit func(path string) error) error
}

// Carry is an opaque bag of auxiliary per-sample bookkeeping
// data, propagated alongside batch inputs and targets but never
// interpreted here. Slice and Gather return a same-shaped Carry
// for the corresponding subset of samples.
type Carry interface {
	// Slice returns the carry for samples [start, stop).
	Slice(start, stop int) Carry

	// Gather returns the carry for the given sample indices,
	// in that order.
	Gather(indices []int) Carry
}

// Mode is the sampling mode used by [Dataset.Sample].
type Mode int32

const (
	// Balanced samples a class uniformly at random, then a sample
	// uniformly within that class, equalizing per-class draw
	// probability regardless of class population size.
	Balanced Mode = iota

	// Random samples uniformly over all samples, so draws are
	// proportional to class population size.
	Random
)

// String returns the name of the sampling mode.
func (md Mode) String() string {
	switch md {
	case Balanced:
		return "balanced"
	case Random:
		return "random"
	}
	return fmt.Sprintf("Mode(%d)", int32(md))
}

// Config are the construction parameters for [Build].
type Config struct {

	// Roots are the dataset root paths. The immediate subfolders
	// of each root are the classes; a folder name becomes a class
	// exactly once (first occurrence wins), and multiple roots
	// may contribute folders to the same class.
	Roots []string `toml:"roots"`

	// Height, Width are the target sample dimensions that the
	// codec decodes and resizes each image to.
	Height int `toml:"height"`
	Width  int `toml:"width"`

	// Mode is the sampling mode used by [Dataset.Sample].
	Mode Mode `toml:"mode"`

	// Split names the dataset split this index serves
	// (e.g. "train", "valid", "test"); informational only.
	Split string `toml:"split"`

	// Extensions is the set of image file extensions to match;
	// [DefaultExtensions] if empty. Only used by callers
	// constructing an enumerator from the config.
	Extensions []string `toml:"extensions"`
}

// SampleFunc is an optional per-sample hook applied to each
// decoded sample tensor before batch assembly (e.g. for cropping
// or normalization). It must be safe for concurrent calls, as
// decoding runs on parallel workers.
type SampleFunc func(ds *Dataset, idx int, tsr tensor.Values) (tensor.Values, error)

// Dataset is the immutable index over an on-disk
// image-classification corpus, plus the sampling configuration.
// The index (Catalog, Paths, Labels, per-class ranges) is built
// once by [Build] and never mutated; all sampling methods are
// safe for concurrent readers.
type Dataset struct {
	Config

	// Catalog is the ordered class catalog.
	Catalog *Catalog

	// Paths is the fixed-width flat table of all sample paths,
	// grouped contiguously by class in ascending class-id order.
	Paths *strtab.Table

	// Labels holds the class id of each sample.
	Labels []int32

	// Starts[c] is the global index of the first sample of class
	// c; together with Counts it derives each class's contiguous
	// index range by running-offset arithmetic, computed once at
	// construction.
	Starts []int

	// Counts[c] is the number of samples of class c.
	Counts []int

	// Codec decodes image files into sample tensors.
	Codec Codec

	// Rand is the random source for sampling; the global source
	// if nil.
	Rand randx.Rand

	// Hook is an optional per-sample transform applied after
	// decoding, before batch assembly.
	Hook SampleFunc

	// Carry is an optional opaque per-sample payload, aligned
	// with the global sample index; sliced and gathered into the
	// batches produced here, never interpreted.
	Carry Carry
}

// Build constructs the dataset index: it enumerates the immediate
// subfolders of each configured root to form the class catalog,
// streams every class's image files into a fixed-width path table
// (grouped contiguously by class, in class-id order), and derives
// the per-class index ranges from the per-class counts.
// It fails with [ErrEmptyClass] if any class yields zero files,
// and [ErrEmptyDataset] if there are no classes or files at all.
// All intermediate spool files are consumed and removed before
// returning. Construction either completes or fails outright;
// there is no partial or degraded dataset.
func Build(cfg *Config, enum Enumerator, codec Codec) (*Dataset, error) {
	ct := NewCatalog()
	for _, root := range cfg.Roots {
		folders, err := enum.Subfolders(root)
		if err != nil {
			return nil, fmt.Errorf("dataset: enumerating classes under %q: %w", root, err)
		}
		for _, fd := range folders {
			ct.Add(fd, filepath.Join(root, fd))
		}
	}
	if ct.NumClasses() == 0 {
		return nil, fmt.Errorf("%w: no class folders under roots %v", ErrEmptyDataset, cfg.Roots)
	}

	bld, err := strtab.NewBuilder()
	if err != nil {
		return nil, err
	}
	defer bld.Close()

	counts := make([]int, ct.NumClasses())
	for ci := range ct.Names {
		n0 := bld.Len()
		for _, folder := range ct.Folders[ci] {
			err := enum.Files(folder, bld.Add)
			if err != nil {
				return nil, fmt.Errorf("dataset: enumerating files under %q: %w", folder, err)
			}
		}
		counts[ci] = bld.Len() - n0
		if counts[ci] == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyClass, ct.Names[ci])
		}
	}

	paths, err := bld.Table()
	if err != nil {
		return nil, err
	}
	n := paths.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: roots %v", ErrEmptyDataset, cfg.Roots)
	}

	labels := make([]int32, n)
	starts := make([]int, ct.NumClasses())
	off := 0
	for ci, cnt := range counts {
		starts[ci] = off
		for i := 0; i < cnt; i++ {
			labels[off+i] = int32(ci)
		}
		off += cnt
	}

	ds := &Dataset{
		Config:  *cfg,
		Catalog: ct,
		Paths:   paths,
		Labels:  labels,
		Starts:  starts,
		Counts:  counts,
		Codec:   codec,
	}
	slog.Debug("dataset: index built",
		"split", cfg.Split,
		"classes", ct.NumClasses(),
		"samples", n,
		"pathWidth", paths.Width,
		"indexSize", humanize.Bytes(uint64(paths.Sizeof())+uint64(4*n)))
	return ds, nil
}

// Len returns the total number of samples in the dataset.
func (ds *Dataset) Len() int { return ds.Paths.Len() }

// NumClasses returns the number of classes.
func (ds *Dataset) NumClasses() int { return ds.Catalog.NumClasses() }

// Path returns the file path of the sample at the given
// global index.
func (ds *Dataset) Path(i int) string { return ds.Paths.At(i) }

// Label returns the class id of the sample at the given
// global index.
func (ds *Dataset) Label(i int) int { return int(ds.Labels[i]) }

// ClassRange returns the contiguous global index range
// [start, stop) of the samples of the given class.
func (ds *Dataset) ClassRange(cls int) (start, stop int) {
	return ds.Starts[cls], ds.Starts[cls] + ds.Counts[cls]
}

// ClassIndex returns the global index of the j-th sample of the
// given class, by running-offset arithmetic.
func (ds *Dataset) ClassIndex(cls, j int) int {
	return ds.Starts[cls] + j
}

// String returns a per-class summary of the dataset.
func (ds *Dataset) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Dataset %s: %d samples, %d classes\n", ds.Split, ds.Len(), ds.NumClasses())
	for ci, nm := range ds.Catalog.Names {
		fmt.Fprintf(b, "\t%s: %d\n", nm, ds.Counts[ci])
	}
	return b.String()
}

// rand returns the configured random source, or the global one.
func (ds *Dataset) rand() randx.Rand {
	if ds.Rand != nil {
		return ds.Rand
	}
	return randx.NewGlobalRand()
}
