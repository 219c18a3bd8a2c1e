// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package run provides execution control: it assembles an evaluator
// with the linear-algebra table merged in and drives parse → evaluate
// → print. It is factored out of main so it can be used for tests.
package run

import (
	"fmt"

	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/eval"
	"github.com/mexlang/mexl/linalg"
	"github.com/mexlang/mexl/value"
)

// New returns an evaluator over conf with the standard external
// tables installed.
func New(conf *config.Config) *eval.Evaluator {
	ev, err := eval.New(eval.Options{
		Config:                conf,
		ExternalFunctionTable: linalg.Table(),
	})
	if err != nil {
		// The built-in tables carry no user input; this cannot fail.
		panic(err)
	}
	return ev
}

// Run parses and evaluates text, printing results to the configured
// output and failures to the error output. The return value reports
// whether execution completed without error.
func Run(ev *eval.Evaluator, text string) bool {
	conf := ev.Config()
	prog, err := ev.Parse(text)
	if err != nil {
		fmt.Fprintln(conf.ErrOutput(), err)
		return false
	}
	v, err := ev.Evaluate(prog)
	if err != nil {
		fmt.Fprintln(conf.ErrOutput(), err)
		return false
	}
	printValue(ev, v)
	return true
}

// printValue prints the non-suppressed results of an evaluation,
// one per line.
func printValue(ev *eval.Evaluator, v value.Value) {
	if v == nil {
		return
	}
	conf := ev.Config()
	list, ok := v.(*eval.List)
	if !ok {
		fmt.Fprintln(conf.Output(), v.Sprint(conf))
		return
	}
	for i, item := range list.Values {
		if item == nil || list.Omit[i] {
			continue
		}
		if inner, ok := item.(*eval.List); ok {
			printValue(ev, inner)
			continue
		}
		fmt.Fprintln(conf.Output(), item.Sprint(conf))
	}
}
