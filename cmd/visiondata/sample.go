// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"cogentcore.org/vision/base/randx"
	"cogentcore.org/vision/dataset"
	"github.com/spf13/cobra"
)

func sampleCmd() *cobra.Command {
	var (
		quantity int
		mode     string
		seed     int64
	)
	cmd := &cobra.Command{
		Use:   "sample [roots...]",
		Short: "draw a batch of samples and report its composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case "balanced":
				cfg.Mode = dataset.Balanced
			case "random":
				cfg.Mode = dataset.Random
			default:
				return fmt.Errorf("unknown sampling mode %q (balanced or random)", mode)
			}
			ds, err := buildDataset(args)
			if err != nil {
				return err
			}
			if seed != 0 {
				ds.Rand = randx.NewSysRand(seed)
			}
			bt, err := ds.Sample(quantity)
			if err != nil {
				return err
			}
			fmt.Printf("batch of %d: input %v %s, labels %s, multihot %s\n",
				bt.Size(), bt.Input.DataType(), bt.Input.Shape(),
				bt.Labels.Shape(), bt.MultiHot.Shape())
			counts := make([]int, ds.NumClasses())
			for _, lb := range bt.Labels.Values {
				counts[lb]++
			}
			for ci, n := range counts {
				fmt.Printf("\t%s: %d\n", ds.Catalog.Name(ci), n)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "n", 16, "number of samples to draw")
	cmd.Flags().StringVarP(&mode, "mode", "m", "balanced", "sampling mode: balanced or random")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the global source)")
	return cmd
}
