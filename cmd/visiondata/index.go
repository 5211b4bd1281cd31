// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"cogentcore.org/vision/base/fsx"
	"cogentcore.org/vision/base/iox/imagex"
	"cogentcore.org/vision/dataset"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [roots...]",
		Short: "build the dataset index and report per-class statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := buildDataset(args)
			if err != nil {
				return err
			}
			fmt.Print(ds.String())
			fmt.Printf("path table: %d entries x %d bytes = %s\n",
				ds.Paths.Len(), ds.Paths.Width, humanize.Bytes(uint64(ds.Paths.Sizeof())))
			return nil
		},
	}
}

func codec() dataset.Codec {
	return imagex.Codec{}
}

// progressEnum wraps the standard directory enumerator with a
// live spinner counting files as they stream by.
type progressEnum struct {
	inner dataset.Enumerator
	bar   *progressbar.ProgressBar
}

func newProgressEnum(exts []string) *progressEnum {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSpinnerType(14),
	)
	return &progressEnum{inner: fsx.NewDirEnumerator(exts...), bar: bar}
}

func (pe *progressEnum) Subfolders(root string) ([]string, error) {
	return pe.inner.Subfolders(root)
}

func (pe *progressEnum) Files(folder string, emit func(path string) error) error {
	return pe.inner.Files(folder, func(path string) error {
		pe.bar.Add(1)
		return emit(path)
	})
}

func (pe *progressEnum) done() {
	pe.bar.Finish()
	fmt.Println()
}
