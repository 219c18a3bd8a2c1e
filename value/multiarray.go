// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"strings"

	"github.com/mexlang/mexl/config"
)

// MultiArray is an N-dimensional array of scalars or strings, or a
// heterogeneous cell container. The shape vector has length at least
// two; contents are stored row-major, while linear indexing is
// column-major in the MATLAB manner.
type MultiArray struct {
	dims  []int
	class Class
	cell  bool
	elems []Value
}

// NewMultiArray builds an array from a shape and row-major contents.
func NewMultiArray(dims []int, class Class, cell bool, elems []Value) *MultiArray {
	if len(dims) < 2 {
		d := make([]int, 2)
		switch len(dims) {
		case 0:
			// empty shape: 0x0
		case 1:
			d[0], d[1] = 1, dims[0]
		}
		dims = d
	}
	if size(dims) != len(elems) {
		Errorf("internal shape error: %v holds %d elements", dims, len(elems))
	}
	return &MultiArray{dims: dims, class: class, cell: cell, elems: elems}
}

// NewRowVector builds a 1×n numeric array.
func NewRowVector(elems []Value) *MultiArray {
	return NewMultiArray([]int{1, len(elems)}, classOfElems(elems), false, elems)
}

// NewColVector builds an n×1 numeric array.
func NewColVector(elems []Value) *MultiArray {
	return NewMultiArray([]int{len(elems), 1}, classOfElems(elems), false, elems)
}

// Empty returns the empty 0×0 array.
func Empty() *MultiArray {
	return &MultiArray{dims: []int{0, 0}, class: ClassDecimal, elems: nil}
}

func size(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

func classOfElems(elems []Value) Class {
	if len(elems) == 0 {
		return ClassDecimal
	}
	class := ClassOf(elems[0])
	for _, e := range elems[1:] {
		if ClassOf(e) != class {
			if class == ClassLogical || ClassOf(e) == ClassLogical {
				class = ClassDecimal
				continue
			}
			return ClassDecimal
		}
	}
	return class
}

// Dims returns the shape vector. The result must not be mutated.
func (m *MultiArray) Dims() []int { return m.dims }

// IsCell reports whether the array is a heterogeneous cell container.
func (m *MultiArray) IsCell() bool { return m.cell }

// IsEmpty reports whether any dimension is zero.
func (m *MultiArray) IsEmpty() bool {
	for _, d := range m.dims {
		if d == 0 {
			return true
		}
	}
	return false
}

// Rank returns the number of dimensions.
func (m *MultiArray) Rank() int { return len(m.dims) }

// GetDimension returns dimension i (0-based); beyond the rank every
// dimension is 1.
func (m *MultiArray) GetDimension(i int) int {
	if i >= len(m.dims) {
		return 1
	}
	return m.dims[i]
}

// LinearLength returns the element count.
func (m *MultiArray) LinearLength() int { return size(m.dims) }

// All returns the row-major contents. The result must not be mutated.
func (m *MultiArray) All() []Value { return m.elems }

// AtLinear returns the element at 1-based column-major index k.
func (m *MultiArray) AtLinear(k int) Value { return m.atLinear(k) }

// Class returns the element class tag.
func (m *MultiArray) Class() Class { return m.class }

// ClassIsLogical reports whether the array carries the logical tag.
func (m *MultiArray) ClassIsLogical() bool { return m.class == ClassLogical }

// Copy materializes an independent array.
func (m *MultiArray) Copy() *MultiArray {
	dims := make([]int, len(m.dims))
	copy(dims, m.dims)
	elems := make([]Value, len(m.elems))
	for i, e := range m.elems {
		elems[i] = CopyValue(e)
	}
	return &MultiArray{dims: dims, class: m.class, cell: m.cell, elems: elems}
}

// Index mapping. Storage is row-major; linear (single-subscript)
// indexing is column-major. Both go through explicit coordinates.

// rowOffset returns the row-major storage offset of 0-based coords.
func rowOffset(dims, coords []int) int {
	off := 0
	for i := 0; i < len(dims); i++ {
		off = off*dims[i] + coordAt(coords, i)
	}
	return off
}

func coordAt(coords []int, i int) int {
	if i < len(coords) {
		return coords[i]
	}
	return 0
}

// colCoords converts a 0-based column-major linear index to coords:
// the first dimension varies fastest.
func colCoords(dims []int, k int) []int {
	coords := make([]int, len(dims))
	for i := 0; i < len(dims); i++ {
		if dims[i] == 0 {
			continue
		}
		coords[i] = k % dims[i]
		k /= dims[i]
	}
	return coords
}

// atLinear returns the element at 1-based column-major index k.
func (m *MultiArray) atLinear(k int) Value {
	n := m.LinearLength()
	if k < 1 || k > n {
		Errorf("index %d out of range for array of %d elements", k, n)
	}
	return m.elems[rowOffset(m.dims, colCoords(m.dims, k-1))]
}

// setLinear stores v at 1-based column-major index k.
func (m *MultiArray) setLinear(k int, v Value) {
	m.elems[rowOffset(m.dims, colCoords(m.dims, k-1))] = v
}

// fill returns the default element for extension: 0 for numeric,
// the empty string for string arrays, the empty array for cells.
func (m *MultiArray) fill(conf *config.Config) Value {
	switch m.class {
	case ClassChar:
		return NewCharString("", SingleQuote)
	case ClassCell:
		return Empty()
	}
	return Int64(conf, 0)
}

// LinearGet reads with a single subscript vector, treating the array
// in column-major order. A vector source keeps its own orientation;
// otherwise the result takes the orientation of the subscript.
// A single scalar subscript returns the element itself.
func (m *MultiArray) LinearGet(subs []int, column bool) Value {
	if len(subs) == 1 {
		return CopyValue(m.atLinear(subs[0]))
	}
	if m.isVector() {
		column = m.dims[1] == 1 && m.dims[0] > 1
	}
	elems := make([]Value, len(subs))
	for i, k := range subs {
		elems[i] = CopyValue(m.atLinear(k))
	}
	return NewMultiArray(orient(len(subs), column), m.class, m.cell, elems)
}

func orient(n int, column bool) []int {
	if column {
		return []int{n, 1}
	}
	return []int{1, n}
}

// SubGet reads with one subscript vector per dimension. The result
// shape is the outer product of the subscript lengths; if every
// subscript is a single index the element itself is returned.
// Fewer subscripts than dimensions are permitted only when the
// trailing dimensions are singletons; extra trailing subscripts
// address singleton dimensions.
func (m *MultiArray) SubGet(subs [][]int) Value {
	if len(subs) > len(m.dims) {
		for i := len(m.dims); i < len(subs); i++ {
			for _, k := range subs[i] {
				if k != 1 {
					Errorf("index %d out of range for dimension %d of size 1", k, i+1)
				}
			}
		}
		subs = subs[:len(m.dims)]
	}
	if len(subs) < len(m.dims) {
		for _, d := range m.dims[len(subs):] {
			if d != 1 {
				Errorf("under-specified subscripts for %s array", dimsString(m.dims))
			}
		}
	}
	scalarResult := true
	outDims := make([]int, len(subs))
	for i, s := range subs {
		outDims[i] = len(s)
		if len(s) != 1 {
			scalarResult = false
		}
		for _, k := range s {
			if k < 1 || k > m.dims[i] {
				Errorf("index %d out of range for dimension %d of size %d", k, i+1, m.dims[i])
			}
		}
	}
	if scalarResult {
		coords := make([]int, len(subs))
		for i, s := range subs {
			coords[i] = s[0] - 1
		}
		return CopyValue(m.elems[rowOffset(m.dims, coords)])
	}
	n := size(outDims)
	elems := make([]Value, n)
	coords := make([]int, len(subs))
	src := make([]int, len(subs))
	for i := 0; i < n; i++ {
		for j := range subs {
			src[j] = subs[j][coords[j]] - 1
		}
		elems[rowOffset(outDims, coords)] = CopyValue(m.elems[rowOffset(m.dims, src)])
		incRowMajor(coords, outDims)
	}
	for len(outDims) < 2 {
		outDims = append(outDims, 1)
	}
	return NewMultiArray(outDims, m.class, m.cell, elems)
}

// incRowMajor advances coords through dims in row-major order
// (last dimension fastest), to match rowOffset.
func incRowMajor(coords, dims []int) {
	for j := len(coords) - 1; j >= 0; j-- {
		coords[j]++
		if coords[j] < dims[j] {
			return
		}
		coords[j] = 0
	}
}

// LogicalGet selects the positions whose mask entry is truthy, in
// column-major order. A vector source keeps its own orientation;
// any other source produces a column vector.
func (m *MultiArray) LogicalGet(mask *MultiArray) Value {
	if mask.LinearLength() > m.LinearLength() {
		Errorf("logical index has %d elements but array has %d",
			mask.LinearLength(), m.LinearLength())
	}
	var elems []Value
	for k := 1; k <= mask.LinearLength(); k++ {
		if truthy(mask.atLinear(k)) {
			elems = append(elems, CopyValue(m.atLinear(k)))
		}
	}
	column := true
	if m.isVector() {
		column = m.dims[1] == 1 && m.dims[0] > 1
	}
	return NewMultiArray(orient(len(elems), column), m.class, m.cell, elems)
}

func truthy(v Value) bool {
	s, ok := v.(Scalar)
	return ok && s.True()
}

// Find returns the 1-based column-major linear indices of the truthy
// elements: a column vector, except that a row-vector source keeps the
// row orientation.
func (m *MultiArray) Find(conf *config.Config) *MultiArray {
	var elems []Value
	for k := 1; k <= m.LinearLength(); k++ {
		if truthy(m.atLinear(k)) {
			elems = append(elems, Int64(conf, int64(k)))
		}
	}
	column := true
	if m.isVector() {
		column = m.dims[1] == 1 && m.dims[0] > 1
	}
	return NewMultiArray(orient(len(elems), column), ClassDecimal, false, elems)
}

// LinearSet writes through a single subscript vector, extending a
// vector (or empty array) when a subscript lies beyond the end.
func (m *MultiArray) LinearSet(conf *config.Config, subs []int, rhs Value) {
	max := 0
	for _, k := range subs {
		if k < 1 {
			Errorf("index %d out of range", k)
		}
		if k > max {
			max = k
		}
	}
	if max > m.LinearLength() {
		m.extendLinear(conf, max)
	}
	values := spreadRHS(rhs, len(subs))
	for i, k := range subs {
		m.setLinear(k, values[i])
	}
	m.reclass()
}

// extendLinear grows the array to hold n elements. Only vectors and
// the empty array may grow linearly.
func (m *MultiArray) extendLinear(conf *config.Config, n int) {
	fill := m.fill(conf)
	switch {
	case m.LinearLength() == 0:
		elems := make([]Value, n)
		for i := range elems {
			elems[i] = fill
		}
		m.dims = []int{1, n}
		m.elems = elems
	case m.isVector():
		column := m.dims[1] == 1 && m.dims[0] > 1
		for len(m.elems) < n {
			m.elems = append(m.elems, fill)
		}
		if column {
			m.dims = []int{n, 1}
		} else {
			m.dims = []int{1, n}
		}
	default:
		Errorf("linear index %d out of range for %s array", n, dimsString(m.dims))
	}
}

func (m *MultiArray) isVector() bool {
	return len(m.dims) == 2 && (m.dims[0] == 1 || m.dims[1] == 1)
}

// SubSet writes through per-dimension subscripts, extending the shape
// with default fill when a subscript exceeds a dimension.
func (m *MultiArray) SubSet(conf *config.Config, subs [][]int, rhs Value) {
	if len(subs) < len(m.dims) {
		// Writing with fewer subscripts than dimensions is permitted
		// only when the trailing dimensions are singletons.
		for _, d := range m.dims[len(subs):] {
			if d != 1 {
				Errorf("under-specified subscripts for %s array", dimsString(m.dims))
			}
		}
	}
	newDims := make([]int, maxInt(len(subs), len(m.dims)))
	for i := range newDims {
		newDims[i] = m.GetDimension(i)
	}
	for i, s := range subs {
		for _, k := range s {
			if k < 1 {
				Errorf("index %d out of range", k)
			}
			if k > newDims[i] {
				newDims[i] = k
			}
		}
	}
	m.reshapeTo(conf, newDims)

	outDims := make([]int, len(subs))
	for i, s := range subs {
		outDims[i] = len(s)
	}
	n := size(outDims)
	values := spreadRHS(rhs, n)
	dst := make([]int, len(subs))
	// values arrive in column-major order, so walk the selected
	// positions column-major too.
	for k := 0; k < n; k++ {
		coords := colCoords(outDims, k)
		for j := range subs {
			dst[j] = subs[j][coords[j]] - 1
		}
		m.elems[rowOffset(m.dims, dst)] = values[k]
	}
	m.reclass()
}

// LogicalSet writes through a mask: the right side is a scalar
// (broadcast) or supplies one element per selected position.
func (m *MultiArray) LogicalSet(conf *config.Config, mask *MultiArray, rhs Value) {
	if mask.LinearLength() > m.LinearLength() {
		Errorf("logical index has %d elements but array has %d",
			mask.LinearLength(), m.LinearLength())
	}
	count := 0
	for k := 1; k <= mask.LinearLength(); k++ {
		if truthy(mask.atLinear(k)) {
			count++
		}
	}
	values := spreadRHS(rhs, count)
	i := 0
	for k := 1; k <= mask.LinearLength(); k++ {
		if truthy(mask.atLinear(k)) {
			m.setLinear(k, values[i])
			i++
		}
	}
	m.reclass()
}

// spreadRHS adapts the right side of an indexed assignment to n target
// positions: a scalar or string broadcasts, an array must match
// element for element.
func spreadRHS(rhs Value, n int) []Value {
	if arr, ok := rhs.(*MultiArray); ok && !arr.cell {
		if arr.LinearLength() == 1 {
			rhs = arr.atLinear(1)
		} else {
			if arr.LinearLength() != n {
				Errorf("assignment needs %d elements, right side has %d", n, arr.LinearLength())
			}
			values := make([]Value, n)
			for k := 1; k <= n; k++ {
				values[k-1] = CopyValue(arr.atLinear(k))
			}
			return values
		}
	}
	values := make([]Value, n)
	for i := range values {
		values[i] = CopyValue(rhs)
	}
	return values
}

// reshapeTo grows the array to newDims, preserving existing elements
// at their coordinates and filling the rest.
func (m *MultiArray) reshapeTo(conf *config.Config, newDims []int) {
	if sameDims(m.dims, newDims) {
		return
	}
	fill := m.fill(conf)
	elems := make([]Value, size(newDims))
	for i := range elems {
		elems[i] = fill
	}
	coords := make([]int, len(m.dims))
	for i := 0; i < len(m.elems); i++ {
		elems[rowOffset(newDims, coords)] = m.elems[rowOffset(m.dims, coords)]
		incRowMajor(coords, m.dims)
	}
	m.dims = newDims
	m.elems = elems
}

func sameDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// reclass recomputes the element class after a write.
func (m *MultiArray) reclass() {
	if !m.cell {
		m.class = classOfElems(m.elems)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func dimsString(dims []int) string {
	var b strings.Builder
	for i, d := range dims {
		if i > 0 {
			b.WriteByte('x')
		}
		fmtInt(&b, d)
	}
	return b.String()
}

func fmtInt(b *strings.Builder, n int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	if n >= 10 {
		fmtInt(b, n/10)
	}
	b.WriteByte(byte('0' + n%10))
}

// Sprint renders rank-2 arrays in bracket form, [a,b;c,d], with braces
// for cells. Higher ranks render as ndarray(shape, contents) since the
// bracket syntax cannot express them.
func (m *MultiArray) Sprint(conf *config.Config) string {
	open, close := "[", "]"
	if m.cell {
		open, close = "{", "}"
	}
	if len(m.dims) == 2 {
		var b strings.Builder
		b.WriteString(open)
		for r := 0; r < m.dims[0]; r++ {
			if r > 0 {
				b.WriteString(";")
			}
			for c := 0; c < m.dims[1]; c++ {
				if c > 0 {
					b.WriteString(",")
				}
				b.WriteString(m.elems[r*m.dims[1]+c].Sprint(conf))
			}
		}
		b.WriteString(close)
		return b.String()
	}
	var b strings.Builder
	b.WriteString("ndarray([")
	for i, d := range m.dims {
		if i > 0 {
			b.WriteString(",")
		}
		fmtInt(&b, d)
	}
	b.WriteString("], ")
	b.WriteString(open)
	for i, e := range m.elems {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(e.Sprint(conf))
	}
	b.WriteString(close)
	b.WriteString(")")
	return b.String()
}
