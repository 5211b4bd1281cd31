// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package view provides lazy, cached, axis-layout-aware exchange
// of tensors between model stages. A [View] wraps one canonical
// tensor per forward pass, realizes derived layout / data type
// combinations on demand via cached transform [Pipeline]s, and
// accumulates gradients deposited by multiple consumers back to
// the canonical layout on the backward pass.
//
// A View is not safe for concurrent use: exactly one producer
// calls [View.ForwardPut] per pass, and consumers call
// [View.ForwardGet] and [View.BackwardPut] from the same
// goroutine or with external synchronization.
package view

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cogentcore.org/vision/tensor"
)

var (
	// ErrLayoutRank indicates that a layout string does not match
	// the rank or axes of the tensor it describes.
	ErrLayoutRank = errors.New("view: layout does not match tensor rank")

	// ErrNoBatchAxis indicates that a layout has no batch axis
	// marker where one is required.
	ErrNoBatchAxis = errors.New("view: layout has no batch axis")

	// ErrTypeMismatch indicates a gradient data type differing
	// from the canonical tensor's data type.
	ErrTypeMismatch = errors.New("view: data type mismatch")
)

// Standard axis role characters for layout strings.
const (
	// BatchAxis marks the batch (sample) axis in a layout string.
	BatchAxis = 'b'

	// ChannelAxis marks the channel axis in a layout string.
	ChannelAxis = 'c'

	// HeightAxis marks the height axis in a layout string.
	HeightAxis = 'h'

	// WidthAxis marks the width axis in a layout string.
	WidthAxis = 'w'

	// FeatureAxis marks the collapsed feature axis in a layout
	// string, absorbing all canonical axes not otherwise named.
	FeatureAxis = 'f'
)

// realizedKey keys the per-pass cache of realized tensors.
type realizedKey struct {
	layout string
	dtype  reflect.Kind
}

// gradient is one (layout, gradient tensor) pair deposited by a
// downstream consumer via [View.BackwardPut].
type gradient struct {
	layout string
	grad   tensor.Values
}

// View wraps exactly one canonical input tensor per forward pass,
// with its declared axis layout string, and serves that tensor to
// consumers in whatever layout and data type they request.
// Realized tensors are cached for the duration of one pass;
// transform pipelines are cached across passes.
type View struct {

	// Layout is the canonical axis layout, set by ForwardPut.
	Layout string

	// canonical is the tensor for the current pass.
	canonical tensor.Values

	// realized caches (layout, type) tensors for the current pass.
	realized map[realizedKey]tensor.Values

	// pipelines caches transform pipelines per target layout.
	// Pipelines are pass-invariant and survive ForwardPut.
	pipelines map[string]*Pipeline

	// grads accumulates deposited gradients for the current pass.
	grads []gradient
}

// NewView returns a new empty View. Call [View.ForwardPut] to
// load the canonical tensor for a pass.
func NewView() *View {
	return &View{
		realized:  make(map[realizedKey]tensor.Values),
		pipelines: make(map[string]*Pipeline),
	}
}

// ForwardPut sets the canonical tensor and its axis layout for a
// new pass. The tensor rank must equal the layout length, else
// [ErrLayoutRank]. The per-pass realized-tensor cache and the
// gradient accumulation list are reset; cached transform
// pipelines are preserved, except when the canonical layout or
// shape changed, which invalidates them.
func (vw *View) ForwardPut(layout string, tsr tensor.Values) error {
	if tsr.NumDims() != len(layout) {
		return fmt.Errorf("%w: layout %q has %d axes but tensor has %d dimensions",
			ErrLayoutRank, layout, len(layout), tsr.NumDims())
	}
	if err := checkUniqueAxes(layout); err != nil {
		return err
	}
	if vw.canonical != nil &&
		(layout != vw.Layout || !tsr.Shape().IsEqual(vw.canonical.Shape())) {
		clear(vw.pipelines)
	}
	vw.Layout = layout
	vw.canonical = tsr
	clear(vw.realized)
	vw.grads = vw.grads[:0]
	return nil
}

// Canonical returns the canonical tensor for the current pass,
// or nil before the first ForwardPut.
func (vw *View) Canonical() tensor.Values { return vw.canonical }

// ForwardGet returns the canonical tensor as viewed through the
// given target layout and converted to the given data type.
// Results are cached: repeated calls for the same (layout, type)
// within one pass return the identical tensor without re-running
// the transform pipeline. The returned tensor is shared among all
// consumers requesting it and must not be mutated.
func (vw *View) ForwardGet(layout string, dtype reflect.Kind) (tensor.Values, error) {
	if vw.canonical == nil {
		return nil, errors.New("view: ForwardGet before ForwardPut")
	}
	key := realizedKey{layout: layout, dtype: dtype}
	if tsr, ok := vw.realized[key]; ok {
		return tsr, nil
	}
	pl, err := vw.pipelineFor(layout)
	if err != nil {
		return nil, err
	}
	tsr, err := pl.Apply(vw.canonical)
	if err != nil {
		return nil, err
	}
	ct := tensor.CastTo(tsr, dtype)
	vw.realized[key] = ct
	return ct, nil
}

// BackwardPut deposits the gradient of the pass output with
// respect to the view of the canonical tensor under the given
// layout. No computation happens here; gradients are resolved by
// [View.BackwardGet]. Any number of consumers may deposit
// gradients within one pass.
func (vw *View) BackwardPut(layout string, grad tensor.Values) error {
	if vw.canonical == nil {
		return errors.New("view: BackwardPut before ForwardPut")
	}
	if _, err := vw.pipelineFor(layout); err != nil {
		return err
	}
	vw.grads = append(vw.grads, gradient{layout: layout, grad: grad})
	return nil
}

// BackwardGet resolves all deposited gradients back to the
// canonical layout and returns their element-wise sum, in the
// canonical tensor's shape. The given data type must equal the
// canonical tensor's data type, else [ErrTypeMismatch].
// With a single deposited gradient the single reversed tensor is
// returned directly; with multiple (fan-out to several
// consumers), each is reversed independently and summed into a
// zero-initialized accumulator of the canonical shape, per the
// multivariate chain rule.
func (vw *View) BackwardGet(dtype reflect.Kind) (tensor.Values, error) {
	if vw.canonical == nil {
		return nil, errors.New("view: BackwardGet before ForwardPut")
	}
	if dtype != vw.canonical.DataType() {
		return nil, fmt.Errorf("%w: requested %v but canonical tensor is %v",
			ErrTypeMismatch, dtype, vw.canonical.DataType())
	}
	if len(vw.grads) == 0 {
		return nil, errors.New("view: BackwardGet with no gradients deposited")
	}
	if len(vw.grads) == 1 {
		rg, err := vw.reverseGrad(vw.grads[0])
		if err != nil {
			return nil, err
		}
		return rg, nil
	}
	acc := tensor.NewOfType(dtype, vw.canonical.Shape().Sizes...)
	for _, gr := range vw.grads {
		rg, err := vw.reverseGrad(gr)
		if err != nil {
			return nil, err
		}
		if err := tensor.Add(acc, rg); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// reverseGrad maps one deposited gradient back to the canonical
// layout and data type.
func (vw *View) reverseGrad(gr gradient) (tensor.Values, error) {
	pl, err := vw.pipelineFor(gr.layout)
	if err != nil {
		return nil, err
	}
	rg, err := pl.Reverse(gr.grad)
	if err != nil {
		return nil, err
	}
	return tensor.CastTo(rg, vw.canonical.DataType()), nil
}

// pipelineFor returns the cached pipeline for the given target
// layout, building and caching it if not yet present.
func (vw *View) pipelineFor(layout string) (*Pipeline, error) {
	if pl, ok := vw.pipelines[layout]; ok {
		return pl, nil
	}
	pl, err := BuildPipeline(vw.Layout, vw.canonical.Shape().Sizes, layout)
	if err != nil {
		return nil, err
	}
	vw.pipelines[layout] = pl
	return pl, nil
}

// BatchPos returns the position of the batch axis in the given
// layout string, or -1 if the layout has no batch axis.
func BatchPos(layout string) int {
	return strings.IndexRune(layout, BatchAxis)
}

// IndexAlongBatch returns a new View over the canonical tensor
// gathered along its batch axis at the given indices, in exactly
// that order. The batch axis is located dynamically from the
// canonical layout; [ErrNoBatchAxis] is returned if the layout
// has no batch axis marker. The new View starts a fresh pass with
// empty caches.
func (vw *View) IndexAlongBatch(indices []int) (*View, error) {
	if vw.canonical == nil {
		return nil, errors.New("view: IndexAlongBatch before ForwardPut")
	}
	bp := BatchPos(vw.Layout)
	if bp < 0 {
		return nil, fmt.Errorf("%w: layout %q", ErrNoBatchAxis, vw.Layout)
	}
	gt, err := tensor.GatherAlong(vw.canonical, bp, indices)
	if err != nil {
		return nil, err
	}
	nv := NewView()
	if err := nv.ForwardPut(vw.Layout, gt); err != nil {
		return nil, err
	}
	return nv, nil
}

// SliceAlongBatch returns a new View over the canonical tensor
// narrowed to the contiguous batch range [start, stop), locating
// the batch axis dynamically from the canonical layout.
// [ErrNoBatchAxis] is returned if the layout has no batch axis.
func (vw *View) SliceAlongBatch(start, stop int) (*View, error) {
	if vw.canonical == nil {
		return nil, errors.New("view: SliceAlongBatch before ForwardPut")
	}
	bp := BatchPos(vw.Layout)
	if bp < 0 {
		return nil, fmt.Errorf("%w: layout %q", ErrNoBatchAxis, vw.Layout)
	}
	sl, err := tensor.SliceAlong(vw.canonical, bp, start, stop)
	if err != nil {
		return nil, err
	}
	nv := NewView()
	if err := nv.ForwardPut(vw.Layout, sl); err != nil {
		return nil, err
	}
	return nv, nil
}
