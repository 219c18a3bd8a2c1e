// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"testing"

	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/eval"
	"github.com/mexlang/mexl/value"
)

func testEvaluator(t *testing.T) *eval.Evaluator {
	t.Helper()
	ev, err := eval.New(eval.Options{Config: new(config.Config)})
	if err != nil {
		t.Fatal(err)
	}
	return ev
}

func mat(conf *config.Config, n int, xs ...int64) *value.MultiArray {
	elems := make([]value.Value, len(xs))
	for i, x := range xs {
		elems[i] = value.Int64(conf, x)
	}
	return value.NewMultiArray([]int{n, len(xs) / n}, value.ClassDecimal, false, elems)
}

func call(t *testing.T, ev *eval.Evaluator, name string, arg value.Value) value.Value {
	t.Helper()
	fn := Table()[name]
	if fn == nil {
		t.Fatalf("no %s in table", name)
	}
	return fn.Fn(ev, []eval.Operand{{Value: arg}})
}

func TestDet(t *testing.T) {
	ev := testEvaluator(t)
	conf := ev.Config()
	tests := []struct {
		m    *value.MultiArray
		want string
	}{
		{mat(conf, 2, 1, 2, 3, 4), "-2"},
		{mat(conf, 2, 1, 2, 2, 4), "0"},
		{mat(conf, 3, 2, 0, 0, 0, 3, 0, 0, 0, 4), "24"},
		{mat(conf, 1, 7), "7"},
	}
	for _, test := range tests {
		got := call(t, ev, "det", test.m).Sprint(conf)
		if got != test.want {
			t.Errorf("det(%s) = %s, want %s", test.m.Sprint(conf), got, test.want)
		}
	}
}

func TestInvRoundTrip(t *testing.T) {
	ev := testEvaluator(t)
	conf := ev.Config()
	a := mat(conf, 2, 1, 2, 2, 6)
	inv := call(t, ev, "inv", a)
	prod := value.MatMul(conf, a, inv).(*value.MultiArray)
	if got := prod.Sprint(conf); got != "[1,0;0,1]" {
		t.Errorf("A*inv(A) = %s", got)
	}
}

func TestInvSingular(t *testing.T) {
	ev := testEvaluator(t)
	conf := ev.Config()
	defer func() {
		if recover() == nil {
			t.Error("inv of singular matrix should fail")
		}
	}()
	call(t, ev, "inv", mat(conf, 2, 1, 2, 2, 4))
}

func TestLUFactors(t *testing.T) {
	ev := testEvaluator(t)
	conf := ev.Config()
	a := mat(conf, 2, 1, 2, 2, 6)
	ret, ok := call(t, ev, "lu", a).(*eval.RetList)
	if !ok {
		t.Fatal("lu should produce a return list")
	}
	l := ret.Select(3, 0).(*value.MultiArray)
	u := ret.Select(3, 1).(*value.MultiArray)
	p := ret.Select(3, 2).(*value.MultiArray)
	// PA = LU.
	pa := value.MatMul(conf, p, a).(*value.MultiArray)
	lu := value.MatMul(conf, l, u).(*value.MultiArray)
	if pa.Sprint(conf) != lu.Sprint(conf) {
		t.Errorf("PA = %s but LU = %s", pa.Sprint(conf), lu.Sprint(conf))
	}
}

func TestEyeAndTrace(t *testing.T) {
	ev := testEvaluator(t)
	conf := ev.Config()
	eye := call(t, ev, "eye", value.Int64(conf, 3)).(*value.MultiArray)
	if got := eye.Sprint(conf); got != "[1,0,0;0,1,0;0,0,1]" {
		t.Errorf("eye(3) = %s", got)
	}
	tr := call(t, ev, "trace", mat(conf, 2, 5, 1, 2, 7))
	if got := tr.Sprint(conf); got != "12" {
		t.Errorf("trace = %s", got)
	}
}
