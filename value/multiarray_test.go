// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"testing"
)

func ints(xs ...int64) []Value {
	elems := make([]Value, len(xs))
	for i, x := range xs {
		elems[i] = Int64(testConf, x)
	}
	return elems
}

func matrix2x2(t *testing.T, a, b, c, d int64) *MultiArray {
	t.Helper()
	return BuildMatrix(testConf, [][]Value{ints(a, b), ints(c, d)}, false)
}

func TestBuildMatrix(t *testing.T) {
	m := matrix2x2(t, 1, 2, 3, 4)
	if got := m.Sprint(testConf); got != "[1,2;3,4]" {
		t.Errorf("matrix = %s", got)
	}
	if m.LinearLength() != 4 || m.GetDimension(0) != 2 || m.GetDimension(1) != 2 {
		t.Errorf("bad shape %v", m.Dims())
	}
	if m.GetDimension(5) != 1 {
		t.Error("dimensions beyond the rank must be 1")
	}
}

func TestBuildMatrixSpreading(t *testing.T) {
	// A nested row vector spreads into its row.
	inner := NewRowVector(ints(2, 3))
	m := BuildMatrix(testConf, [][]Value{{Int64(testConf, 1), inner}}, false)
	if got := m.Sprint(testConf); got != "[1,2,3]" {
		t.Errorf("spread = %s", got)
	}
	// Mismatched widths fail.
	defer func() {
		if recover() == nil {
			t.Error("ragged rows should fail")
		}
	}()
	BuildMatrix(testConf, [][]Value{ints(1, 2), ints(3)}, false)
}

func TestLinearIndexingIsColumnMajor(t *testing.T) {
	m := matrix2x2(t, 1, 2, 3, 4)
	// Column-major order: 1 3 2 4.
	want := []string{"1", "3", "2", "4"}
	for k, w := range want {
		if got := m.AtLinear(k + 1).Sprint(testConf); got != w {
			t.Errorf("A(%d) = %s, want %s", k+1, got, w)
		}
	}
}

func TestSubGet(t *testing.T) {
	m := matrix2x2(t, 1, 2, 3, 4)
	row := m.SubGet([][]int{{2}, {1, 2}})
	if got := row.(*MultiArray).Sprint(testConf); got != "[3,4]" {
		t.Errorf("A(2,:) = %s", got)
	}
	el := m.SubGet([][]int{{1}, {2}})
	if got := el.(Scalar).Sprint(testConf); got != "2" {
		t.Errorf("A(1,2) = %s", got)
	}
}

func TestLogicalGet(t *testing.T) {
	x := NewRowVector(ints(10, 20, 30, 40))
	mask := NewMultiArray([]int{1, 4}, ClassLogical, false, []Value{
		NewLogical(testConf, false), NewLogical(testConf, true),
		NewLogical(testConf, true), NewLogical(testConf, true),
	})
	got := x.LogicalGet(mask).(*MultiArray)
	if s := got.Sprint(testConf); s != "[20,30,40]" {
		t.Errorf("x(mask) = %s", s)
	}
	// Consistency with find: x(mask) == x(find(mask)).
	idx := mask.Find(testConf)
	subs := make([]int, idx.LinearLength())
	for k := range subs {
		subs[k] = idx.AtLinear(k + 1).(Scalar).Int()
	}
	viaFind := x.LinearGet(subs, false).(*MultiArray)
	if got.Sprint(testConf) != viaFind.Sprint(testConf) {
		t.Errorf("x(mask)=%s but x(find(mask))=%s", got.Sprint(testConf), viaFind.Sprint(testConf))
	}
}

func TestLinearSetExtends(t *testing.T) {
	x := NewRowVector(ints(1, 2, 3))
	x.LinearSet(testConf, []int{5}, Int64(testConf, 9))
	if got := x.Sprint(testConf); got != "[1,2,3,0,9]" {
		t.Errorf("extended = %s", got)
	}
}

func TestSubSetExtends(t *testing.T) {
	x := NewMultiArray([]int{1, 1}, ClassDecimal, false, ints(1))
	x.SubSet(testConf, [][]int{{2}, {3}}, Int64(testConf, 9))
	if got := x.Sprint(testConf); got != "[1,0,0;0,0,9]" {
		t.Errorf("extended = %s", got)
	}
}

func TestSubSetMatrixRHS(t *testing.T) {
	m := matrix2x2(t, 0, 0, 0, 0)
	m.SubSet(testConf, [][]int{{1, 2}, {1, 2}}, matrix2x2(t, 1, 2, 3, 4))
	if got := m.Sprint(testConf); got != "[1,2;3,4]" {
		t.Errorf("block write = %s", got)
	}
}

func TestLogicalSetBroadcast(t *testing.T) {
	x := NewRowVector(ints(1, 2, 3, 4))
	mask := NewMultiArray([]int{1, 4}, ClassLogical, false, []Value{
		NewLogical(testConf, false), NewLogical(testConf, false),
		NewLogical(testConf, true), NewLogical(testConf, true),
	})
	x.LogicalSet(testConf, mask, Int64(testConf, 0))
	if got := x.Sprint(testConf); got != "[1,2,0,0]" {
		t.Errorf("masked write = %s", got)
	}
}

func TestElemBinaryBroadcast(t *testing.T) {
	m := matrix2x2(t, 1, 2, 3, 4)
	double := ElemBinary(testConf, "*", Mul, m, Int64(testConf, 2))
	if got := double.(*MultiArray).Sprint(testConf); got != "[2,4;6,8]" {
		t.Errorf("A*2 = %s", got)
	}
	sum := ElemBinary(testConf, "+", Add, m, m)
	if got := sum.(*MultiArray).Sprint(testConf); got != "[2,4;6,8]" {
		t.Errorf("A+A = %s", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("shape mismatch should fail")
		}
	}()
	ElemBinary(testConf, "+", Add, m, NewRowVector(ints(1, 2, 3)))
}

func TestMatMul(t *testing.T) {
	m := matrix2x2(t, 1, 2, 3, 4)
	v := NewColVector(ints(1, 1))
	got := MatMul(testConf, m, v).(*MultiArray)
	if s := got.Sprint(testConf); s != "[3;7]" {
		t.Errorf("A*[1;1] = %s", s)
	}
}

func TestTranspose(t *testing.T) {
	m := matrix2x2(t, 1, 2, 3, 4)
	if got := Transpose(testConf, m, false).(*MultiArray).Sprint(testConf); got != "[1,3;2,4]" {
		t.Errorf("A.' = %s", got)
	}
	// Conjugate transpose conjugates elements.
	c := NewRowVector([]Value{Add(testConf, Int64(testConf, 1), Imaginary(testConf))})
	ct := Transpose(testConf, c, true).(*MultiArray)
	if got := ct.AtLinear(1).Sprint(testConf); got != "1-1i" {
		t.Errorf("(1+i)' element = %s", got)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		start, stop, stride string
		want                string
	}{
		{"1", "5", "1", "[1,2,3,4,5]"},
		{"5", "1", "-1", "[5,4,3,2,1]"},
		{"1", "0", "1", "[]"},
		{"0", "2", "0.5", "[0,0.5,1,1.5,2]"},
		{"1", "5", "0", "[]"},
		{"1", "5", "-1", "[]"},
	}
	for _, test := range tests {
		got := NewRange(testConf, numOrDie(t, test.start), numOrDie(t, test.stop), numOrDie(t, test.stride))
		if s := got.Sprint(testConf); s != test.want {
			t.Errorf("%s:%s:%s = %s, want %s", test.start, test.stride, test.stop, s, test.want)
		}
	}
}

func numOrDie(t *testing.T, s string) Scalar {
	t.Helper()
	v, err := ParseNumber(testConf, s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestRangeLengthProperty(t *testing.T) {
	// length(a:s:b) == max(0, floor((b-a)/s)+1)
	cases := []struct {
		a, s, b int64
		n       int
	}{
		{1, 1, 10, 10}, {1, 2, 10, 5}, {10, -3, 1, 4}, {2, 5, 1, 0},
	}
	for _, c := range cases {
		r := NewRange(testConf, Int64(testConf, c.a), Int64(testConf, c.b), Int64(testConf, c.s))
		if r.LinearLength() != c.n {
			t.Errorf("%d:%d:%d has %d elements, want %d", c.a, c.s, c.b, r.LinearLength(), c.n)
		}
	}
}

func TestStructure(t *testing.T) {
	s := NewStructure()
	s.SetNewField([]string{"a", "b"}, Int64(testConf, 5))
	got := s.GetField([]string{"a", "b"})
	if got.(Scalar).Sprint(testConf) != "5" {
		t.Errorf("s.a.b = %s", got.Sprint(testConf))
	}
	if got := s.Sprint(testConf); got != "struct(a = struct(b = 5))" {
		t.Errorf("struct sprint = %s", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("missing field read should fail")
		}
	}()
	s.GetField([]string{"a", "missing"})
}

func TestCellMatrix(t *testing.T) {
	c := BuildMatrix(testConf, [][]Value{{Int64(testConf, 1), NewCharString("a", SingleQuote)}}, true)
	if !c.IsCell() {
		t.Fatal("cell literal must be a cell")
	}
	if got := c.Sprint(testConf); got != "{1,'a'}" {
		t.Errorf("cell = %s", got)
	}
}
