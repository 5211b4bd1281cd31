// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command visiondata indexes on-disk image-classification corpora
// and reports on or samples from the resulting dataset.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/vision/dataset"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool

	cfg = dataset.Config{Height: 224, Width: 224, Split: "train"}
)

func main() {
	root := &cobra.Command{
		Use:   "visiondata",
		Short: "index and sample on-disk image-classification datasets",
		Long: `visiondata builds a compact in-memory index over image datasets
laid out as root/class/image files, and samples batches from it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return loadConfig()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "toml config file with dataset parameters")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.IntVar(&cfg.Height, "height", cfg.Height, "target sample height")
	pf.IntVar(&cfg.Width, "width", cfg.Width, "target sample width")
	pf.StringVar(&cfg.Split, "split", cfg.Split, "split name for reporting")
	pf.StringSliceVar(&cfg.Extensions, "ext", nil, "image extensions to match (default jpg, png, jpeg, ppm, bmp)")

	root.AddCommand(indexCmd(), sampleCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig applies the toml config file, if given, on top of
// the flag values for whichever fields the file sets.
func loadConfig() error {
	if configFile == "" {
		return nil
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	fc := cfg
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %q: %w", configFile, err)
	}
	cfg = fc
	return nil
}

// buildDataset builds the dataset index over the given roots,
// with a live progress count during file enumeration.
func buildDataset(roots []string) (*dataset.Dataset, error) {
	if len(roots) > 0 {
		cfg.Roots = roots
	}
	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("no dataset roots given (as args or in the config file)")
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = dataset.DefaultExtensions
	}
	enum := newProgressEnum(exts)
	defer enum.done()
	return dataset.Build(&cfg, enum, codec())
}
