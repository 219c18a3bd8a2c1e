// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval implements the tree-walking evaluator: the symbol
// environment, the function, operator and command tables, and the
// text and MathML unparsers.
package eval

import (
	"regexp"

	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/parse"
	"github.com/mexlang/mexl/value"
)

// Status is the exit status of the most recent entry-point call.
type Status int

const (
	OK          Status = 0
	LexError    Status = 1
	ParserError Status = 2
	EvalError   Status = 3
	Warning     Status = -1
	External    Status = -2
)

// Entry is a name-table binding. An empty parameter list marks a
// variable, whose Expr is its value; otherwise the entry is a
// user-defined function whose Expr is the unevaluated body.
// (A failed assignment can also leave an unevaluated tree in a
// variable entry; reading such an entry evaluates it.)
type Entry struct {
	Params []string
	Expr   interface{} // value.Value or *ast.Node
}

// CmdFunc implements a command word: a bare name with string arguments.
type CmdFunc func(ev *Evaluator, args ...string) value.Value

// BinaryOp and UnaryOp implement operators over values.
type BinaryOp func(ev *Evaluator, left, right value.Value) value.Value
type UnaryOp func(ev *Evaluator, v value.Value) value.Value

type frame map[string]value.Value

// Options configures evaluator construction. The zero value is valid.
// Unknown options cannot be expressed: the set of fields is the set of
// recognized options.
type Options struct {
	// Config supplies precision and output settings; nil means defaults.
	Config *config.Config
	// AliasTable maps a canonical base-function name to a regular
	// expression matching the written names that resolve to it.
	AliasTable map[string]string
	// ExternalFunctionTable is merged over the built-in base functions.
	ExternalFunctionTable map[string]*Builtin
	// ExternalCmdWListTable is merged over the built-in command words.
	ExternalCmdWListTable map[string]CmdFunc
}

// Evaluator owns the environment and the dispatch tables. Evaluators
// share nothing; all state is instance-scoped.
type Evaluator struct {
	conf    *config.Config
	names   map[string]*Entry
	funcs   map[string]*Builtin
	cmds    map[string]CmdFunc
	binOps  map[string]BinaryOp
	preOps  map[string]UnaryOp
	postOps map[string]UnaryOp
	aliases map[string]*regexp.Regexp
	locals  []frame

	// ExitStatus reports the outcome of the most recent Parse or
	// Evaluate call.
	ExitStatus Status
}

// New constructs an evaluator, seeds the native constants and the
// built-in function, operator and command tables, then merges the
// external tables from opts.
func New(opts Options) (*Evaluator, error) {
	conf := opts.Config
	if conf == nil {
		conf = new(config.Config)
	}
	ev := &Evaluator{
		conf:  conf,
		names: make(map[string]*Entry),
		cmds:  make(map[string]CmdFunc),
	}
	ev.funcs = builtinTable()
	ev.binOps = binaryTable()
	ev.preOps = prefixTable()
	ev.postOps = postfixTable()
	ev.installCommands()
	ev.seedNatives()
	if len(opts.AliasTable) > 0 {
		ev.aliases = make(map[string]*regexp.Regexp, len(opts.AliasTable))
		for canonical, expr := range opts.AliasTable {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, err
			}
			ev.aliases[canonical] = re
		}
	}
	for name, fn := range opts.ExternalFunctionTable {
		ev.funcs[name] = fn
	}
	for name, fn := range opts.ExternalCmdWListTable {
		ev.cmds[name] = fn
	}
	return ev, nil
}

// Config returns the evaluator's configuration.
func (ev *Evaluator) Config() *config.Config {
	return ev.conf
}

// nativeNames are re-seeded on construction and on a bare clear.
var nativeNames = []string{
	"false", "true", "i", "I", "j", "J", "e", "pi", "inf", "Inf", "nan", "NaN",
}

func (ev *Evaluator) seedNatives() {
	conf := ev.conf
	set := func(name string, v value.Value) {
		ev.names[name] = &Entry{Expr: v}
	}
	set("false", value.NewLogical(conf, false))
	set("true", value.NewLogical(conf, true))
	for _, name := range []string{"i", "I", "j", "J"} {
		set(name, value.Imaginary(conf))
	}
	set("e", value.E(conf))
	set("pi", value.Pi(conf))
	set("inf", value.Inf(conf, 1))
	set("Inf", value.Inf(conf, 1))
	set("nan", value.NaN(conf))
	set("NaN", value.NaN(conf))
}

// CommandWords returns the registered command-word name set, for
// publication to the front end.
func (ev *Evaluator) CommandWords() map[string]bool {
	words := make(map[string]bool, len(ev.cmds))
	for name := range ev.cmds {
		words[name] = true
	}
	return words
}

// Parse runs the front end over text, publishing the evaluator's
// command words to it.
func (ev *Evaluator) Parse(text string) (*ast.Node, error) {
	prog, err := parse.Parse(text, ev.CommandWords())
	switch err.(type) {
	case nil:
		ev.ExitStatus = OK
	case *parse.LexError:
		ev.ExitStatus = LexError
	default:
		ev.ExitStatus = ParserError
	}
	return prog, err
}

// Evaluate walks the tree and returns its value. On an evaluation
// failure the exit status is set and the failure returned as an error.
func (ev *Evaluator) Evaluate(node *ast.Node) (v value.Value, err error) {
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		if verr, ok := e.(value.Error); ok {
			ev.ExitStatus = EvalError
			err = verr
			return
		}
		panic(e)
	}()
	ev.ExitStatus = OK
	return ev.eval(node), nil
}

// Run parses and evaluates text in one step.
func (ev *Evaluator) Run(text string) (value.Value, error) {
	prog, err := ev.Parse(text)
	if err != nil {
		return nil, err
	}
	return ev.Evaluate(prog)
}

// Clear removes bindings. With names, each named entry is dropped,
// restoring natives where one was shadowed; a name bound as both is a
// single entry, so variable and function fall together. With no names
// the environment is reset wholesale: natives restored, everything
// else dropped, ans included.
func (ev *Evaluator) Clear(names ...string) {
	if len(names) == 0 {
		ev.names = make(map[string]*Entry)
		ev.locals = nil
		ev.seedNatives()
		return
	}
	for _, name := range names {
		delete(ev.names, name)
	}
	// Restore any cleared natives.
	saved := ev.names
	ev.names = make(map[string]*Entry)
	ev.seedNatives()
	for name, e := range saved {
		ev.names[name] = e
	}
}

// Restart resets the evaluator to its post-construction state, keeping
// the external tables.
func (ev *Evaluator) Restart() {
	ev.Clear()
	ev.ExitStatus = OK
}

// resolveAlias maps a written name to its canonical base-function
// name. With no alias table it is the identity.
func (ev *Evaluator) resolveAlias(name string) string {
	if ev.funcs[name] != nil || ev.aliases == nil {
		return name
	}
	for canonical, re := range ev.aliases {
		if re.MatchString(name) {
			return canonical
		}
	}
	return name
}

// Inspection accessors.

// BaseFunc returns the base-function entry for a (canonical) name.
func (ev *Evaluator) BaseFunc(name string) *Builtin {
	return ev.funcs[ev.resolveAlias(name)]
}

// Lookup returns the name-table entry for name.
func (ev *Evaluator) Lookup(name string) (*Entry, bool) {
	e, ok := ev.names[name]
	return e, ok
}

// Operators returns the names of the installed binary operators.
func (ev *Evaluator) Operators() []string {
	names := make([]string, 0, len(ev.binOps))
	for name := range ev.binOps {
		names = append(names, name)
	}
	return names
}

// pushFrame enters a user-function call frame; popFrame leaves it.
// Frames stack, so recursive and re-entrant calls are correct by
// construction.
func (ev *Evaluator) pushFrame(f frame) {
	ev.locals = append(ev.locals, f)
}

func (ev *Evaluator) popFrame() {
	ev.locals = ev.locals[:len(ev.locals)-1]
}

// localLookup finds name in the current call frame only.
func (ev *Evaluator) localLookup(name string) (value.Value, bool) {
	if len(ev.locals) == 0 {
		return nil, false
	}
	v, ok := ev.locals[len(ev.locals)-1][name]
	return v, ok
}
