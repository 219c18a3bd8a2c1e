// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mexl is an interpreter for a MATLAB-style matrix language with
// arbitrary-precision complex arithmetic.
//
// Usage:
//
//	mexl [-e expression] [-mathml] [-config file] [file...]
//
// With no arguments mexl runs an interactive session.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/eval"
	"github.com/mexlang/mexl/linalg"
	"github.com/mexlang/mexl/run"
)

var (
	execute    = flag.String("e", "", "evaluate the expression and exit")
	mathml     = flag.Bool("mathml", false, "print results as MathML instead of text")
	configPath = flag.String("config", "", "configuration file (default $HOME/.mexl.yaml)")
	digits     = flag.Int("digits", 0, "working precision in decimal digits")
	promptFlag = flag.String("prompt", ">> ", "interactive prompt")
)

func main() {
	flag.Parse()

	conf := new(config.Config)
	fc, err := loadFileConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mexl:", err)
		os.Exit(1)
	}
	fc.apply(conf)
	if *digits > 0 {
		conf.SetDigits(*digits)
	}
	promptSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "prompt" {
			promptSet = true
		}
	})
	if promptSet || fc.Prompt == "" {
		conf.SetPrompt(*promptFlag)
	}

	ev, err := newEvaluator(conf, fc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mexl:", err)
		os.Exit(1)
	}

	if *execute != "" {
		if !runText(ev, *execute) {
			os.Exit(1)
		}
		return
	}
	if flag.NArg() > 0 {
		ok := true
		for _, name := range flag.Args() {
			data, err := os.ReadFile(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "mexl: reading %s: %v\n", name, err)
				os.Exit(1)
			}
			if !runText(ev, string(data)) {
				ok = false
			}
		}
		if !ok {
			os.Exit(1)
		}
		return
	}
	interact(ev)
}

func newEvaluator(conf *config.Config, fc *fileConfig) (*eval.Evaluator, error) {
	ev, err := eval.New(eval.Options{
		Config:                conf,
		AliasTable:            fc.Aliases,
		ExternalFunctionTable: linalg.Table(),
	})
	if err != nil {
		return nil, fmt.Errorf("bad alias table: %w", err)
	}
	return ev, nil
}

// runText evaluates one unit of input; with -mathml the result prints
// as a MathML fragment.
func runText(ev *eval.Evaluator, text string) bool {
	if !*mathml {
		return run.Run(ev, text)
	}
	prog, err := ev.Parse(text)
	if err != nil {
		fmt.Fprintln(ev.Config().ErrOutput(), err)
		return false
	}
	v, err := ev.Evaluate(prog)
	if err != nil {
		fmt.Fprintln(ev.Config().ErrOutput(), err)
		return false
	}
	fmt.Fprintln(ev.Config().Output(), ev.UnparseMathML(v, eval.Block))
	return true
}

// completionWords are offered for tab completion alongside the bound
// variable names.
var completionWords = []string{
	"abs", "acos", "acosh", "angle", "asin", "asinh", "atan", "atanh",
	"ceil", "class", "clear", "conj", "cos", "cosh", "det", "disp",
	"echo", "exp", "eye", "factorial", "fieldnames", "find", "fix",
	"floor", "format", "gamma", "imag", "inv", "isempty", "length",
	"log", "log10", "logb", "lu", "max", "min", "ndims", "numel",
	"ones", "prod", "real", "round", "sign", "sin", "sinh", "size",
	"sqrt", "sum", "tan", "tanh", "trace", "who", "zeros",
	"if", "elseif", "else", "endif", "end",
	"pi", "e", "true", "false", "inf", "nan", "ans",
}

// interact runs the line-edited interactive loop.
func interact(ev *eval.Evaluator) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		return filterCompletions(l)
	})

	historyFile := filepath.Join(os.TempDir(), ".mexl_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		text, err := line.Prompt(ev.Config().Prompt())
		if err != nil {
			fmt.Fprintln(ev.Config().Output())
			return
		}
		if strings.TrimSpace(text) == "exit" {
			return
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		line.AppendHistory(text)
		runText(ev, text)
	}
}

// filterCompletions returns the completion candidates for the word
// being typed at the end of l.
func filterCompletions(l string) []string {
	i := strings.LastIndexFunc(l, func(r rune) bool {
		return !(r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
	prefix, word := l[:i+1], l[i+1:]
	if word == "" {
		return nil
	}
	var out []string
	for _, w := range completionWords {
		if strings.HasPrefix(w, word) {
			out = append(out, prefix+w)
		}
	}
	sort.Strings(out)
	return out
}
