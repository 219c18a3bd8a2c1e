// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/value"
)

// RetList is the lazy adapter produced by multi-valued calls. The
// selector is driven by the assignment site: a multi-target assignment
// asks for (totalTargets, index) pairs; any other consumer collapses
// to the first element.
type RetList struct {
	sel func(expected, index int) value.Value
}

// NewRetList wraps a selector.
func NewRetList(sel func(expected, index int) value.Value) *RetList {
	return &RetList{sel: sel}
}

// NewRetListValues wraps a fixed value list; a selector index past the
// end is the canonical undefined-element failure.
func NewRetListValues(values []value.Value) *RetList {
	return &RetList{sel: func(expected, index int) value.Value {
		if index >= len(values) {
			value.Errorf("element number %d undefined in return list", index+1)
		}
		return values[index]
	}}
}

// NewRetListByArity wraps a producer whose value list depends on how
// many elements the assignment site requests.
func NewRetListByArity(fn func(expected int) []value.Value) *RetList {
	return &RetList{sel: func(expected, index int) value.Value {
		values := fn(expected)
		if index >= len(values) {
			value.Errorf("element number %d undefined in return list", index+1)
		}
		return values[index]
	}}
}

// Select returns element index of expected requested elements.
func (r *RetList) Select(expected, index int) value.Value {
	return r.sel(expected, index)
}

// Sprint renders the collapsed first element.
func (r *RetList) Sprint(conf *config.Config) string {
	return r.Select(1, 0).Sprint(conf)
}

// collapse reduces a RETLIST in value position to its first element.
func collapse(v value.Value) value.Value {
	if r, ok := v.(*RetList); ok {
		return r.Select(1, 0)
	}
	return v
}
