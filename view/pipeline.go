// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/vision/tensor"
)

// Step is one reversible transform in a [Pipeline]: a permutation
// of axes or a length-preserving reshape. Apply runs the forward
// transform; Reverse runs the exact inverse, for mapping gradients
// back to the canonical layout.
type Step interface {
	fmt.Stringer

	// Apply runs the forward transform on the given tensor.
	Apply(x tensor.Values) (tensor.Values, error)

	// Reverse runs the inverse transform on the given tensor.
	Reverse(g tensor.Values) (tensor.Values, error)
}

// PermuteStep reorders tensor axes: output axis i is input
// axis Axes[i].
type PermuteStep struct {
	Axes []int
}

func (ps *PermuteStep) Apply(x tensor.Values) (tensor.Values, error) {
	return tensor.Permute(x, ps.Axes...)
}

func (ps *PermuteStep) Reverse(g tensor.Values) (tensor.Values, error) {
	return tensor.Permute(g, tensor.InvertPermutation(ps.Axes)...)
}

func (ps *PermuteStep) String() string {
	return fmt.Sprintf("permute%v", ps.Axes)
}

// ReshapeStep is a length-preserving reshape from the From sizes
// to the To sizes, preserving row-major value order.
type ReshapeStep struct {
	From []int
	To   []int
}

func (rs *ReshapeStep) Apply(x tensor.Values) (tensor.Values, error) {
	if !slices.Equal(x.Shape().Sizes, rs.From) {
		return nil, fmt.Errorf("view: reshape step expects shape %v, got %v", rs.From, x.Shape().Sizes)
	}
	return tensor.Reshape(x, rs.To...)
}

func (rs *ReshapeStep) Reverse(g tensor.Values) (tensor.Values, error) {
	if !slices.Equal(g.Shape().Sizes, rs.To) {
		return nil, fmt.Errorf("view: reshape step reverse expects shape %v, got %v", rs.To, g.Shape().Sizes)
	}
	return tensor.Reshape(g, rs.From...)
}

func (rs *ReshapeStep) String() string {
	return fmt.Sprintf("reshape%v->%v", rs.From, rs.To)
}

// Pipeline is an ordered list of reversible transform [Step]s
// converting a tensor from the canonical layout to a target
// layout. Pipelines are layout-dependent but value-independent,
// so one pipeline is built per target layout and replayed across
// passes. An empty Steps list is the identity transform.
type Pipeline struct {

	// Layout is the target layout this pipeline produces.
	Layout string

	// Steps are applied in order by Apply, and inverted in
	// reverse order by Reverse.
	Steps []Step

	// Runs counts the number of Apply calls, primarily to make
	// cache behavior observable in tests.
	Runs int
}

// Apply runs all steps in order on the given tensor.
// The identity pipeline returns its input unchanged.
func (pl *Pipeline) Apply(x tensor.Values) (tensor.Values, error) {
	pl.Runs++
	var err error
	for _, st := range pl.Steps {
		x, err = st.Apply(x)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Reverse runs all step inverses in reverse order on the given
// gradient tensor, mapping it back to the canonical layout.
func (pl *Pipeline) Reverse(g tensor.Values) (tensor.Values, error) {
	var err error
	for i := len(pl.Steps) - 1; i >= 0; i-- {
		g, err = pl.Steps[i].Reverse(g)
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// String lists the steps of the pipeline.
func (pl *Pipeline) String() string {
	if len(pl.Steps) == 0 {
		return pl.Layout + ": identity"
	}
	strs := make([]string, len(pl.Steps))
	for i, st := range pl.Steps {
		strs[i] = st.String()
	}
	return pl.Layout + ": " + strings.Join(strs, " -> ")
}

// BuildPipeline constructs the transform pipeline converting a
// tensor with the given canonical layout and sizes to the given
// target layout. Each target axis character either names an axis
// of the canonical layout directly, or (for at most one character,
// conventionally 'f' for feature) collapses all canonical axes not
// otherwise named, in their declared canonical order, into one
// dimension of their product size.
//
// The resulting pipeline is a permutation bringing the named axes
// into target order with the collapsed axes in declared order at
// the collapse position, followed by a reshape merging them.
// A same-rank target that names every canonical axis is a pure
// permutation; the target equal to the canonical layout is the
// identity.
func BuildPipeline(canonical string, sizes []int, target string) (*Pipeline, error) {
	if len(canonical) != len(sizes) {
		return nil, fmt.Errorf("%w: canonical layout %q has %d axes for %d dimensions",
			ErrLayoutRank, canonical, len(canonical), len(sizes))
	}
	if err := checkUniqueAxes(canonical); err != nil {
		return nil, err
	}
	if err := checkUniqueAxes(target); err != nil {
		return nil, err
	}
	pl := &Pipeline{Layout: target}
	if target == canonical {
		return pl, nil
	}

	claimed := make([]bool, len(canonical))
	collapse := -1 // index in target of the collapse axis, if any
	for i, r := range target {
		pos := strings.IndexRune(canonical, r)
		if pos < 0 {
			if collapse >= 0 {
				return nil, fmt.Errorf("%w: target layout %q has multiple axes not in canonical %q",
					ErrLayoutRank, target, canonical)
			}
			collapse = i
			continue
		}
		claimed[pos] = true
	}
	var unclaimed []int
	for i, cl := range claimed {
		if !cl {
			unclaimed = append(unclaimed, i)
		}
	}
	if collapse < 0 && len(unclaimed) > 0 {
		return nil, fmt.Errorf("%w: target layout %q does not cover canonical axes of %q",
			ErrLayoutRank, target, canonical)
	}
	if collapse >= 0 && len(unclaimed) == 0 {
		return nil, fmt.Errorf("%w: target layout %q has a collapse axis but all canonical axes of %q are named",
			ErrLayoutRank, target, canonical)
	}

	// permutation: named axes in target order, with the unclaimed
	// axes in declared canonical order at the collapse position.
	var axes []int
	for i, r := range target {
		if i == collapse {
			axes = append(axes, unclaimed...)
			continue
		}
		axes = append(axes, strings.IndexRune(canonical, r))
	}
	identity := true
	for i, ax := range axes {
		if ax != i {
			identity = false
			break
		}
	}
	permuted := make([]int, len(axes))
	for i, ax := range axes {
		permuted[i] = sizes[ax]
	}
	if !identity {
		pl.Steps = append(pl.Steps, &PermuteStep{Axes: axes})
	}
	if collapse >= 0 {
		to := make([]int, len(target))
		for i := range target {
			switch {
			case i < collapse:
				to[i] = permuted[i]
			case i == collapse:
				n := 1
				for _, ui := range unclaimed {
					n *= sizes[ui]
				}
				to[i] = n
			default:
				to[i] = permuted[i+len(unclaimed)-1]
			}
		}
		pl.Steps = append(pl.Steps, &ReshapeStep{From: permuted, To: to})
	}
	return pl, nil
}

// checkUniqueAxes returns an error if any axis character repeats
// in the given layout string.
func checkUniqueAxes(layout string) error {
	for i, r := range layout {
		if strings.ContainsRune(layout[i+1:], r) {
			return fmt.Errorf("%w: layout %q repeats axis %q", ErrLayoutRank, layout, string(r))
		}
	}
	return nil
}
