// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/value"
)

// installCommands seeds the command-word table. A command word applies
// when a bare identifier in statement position has no binding of its
// own; its arguments arrive as unquoted strings.
func (ev *Evaluator) installCommands() {
	ev.cmds["clear"] = cmdClear
	ev.cmds["format"] = cmdFormat
	ev.cmds["who"] = cmdWho
	ev.cmds["echo"] = cmdEcho
}

// cmdClear drops bindings by name; with no names it resets the whole
// environment, natives restored, ans included.
func cmdClear(ev *Evaluator, args ...string) value.Value {
	ev.Clear(args...)
	return nil
}

// cmdFormat adjusts the working precision: "format digits N", or bare
// "format" to restore the default.
func cmdFormat(ev *Evaluator, args ...string) value.Value {
	switch {
	case len(args) == 0:
		ev.conf.SetDigits(config.DefaultDigits)
	case args[0] == "digits" && len(args) == 2:
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= config.GuardDigits {
			value.Errorf("format digits: bad count %q", args[1])
		}
		ev.conf.SetDigits(n)
	default:
		value.Errorf("format: unrecognized arguments %q", strings.Join(args, " "))
	}
	return nil
}

// cmdWho lists the bound names, variables and functions both.
func cmdWho(ev *Evaluator, args ...string) value.Value {
	names := make([]string, 0, len(ev.names))
	for name := range ev.names {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(ev.names[name].Params) > 0 {
			fmt.Fprintf(ev.conf.Output(), "%s(%s)\n", name, strings.Join(ev.names[name].Params, ","))
			continue
		}
		fmt.Fprintln(ev.conf.Output(), name)
	}
	return nil
}

// cmdEcho prints its words.
func cmdEcho(ev *Evaluator, args ...string) value.Value {
	fmt.Fprintln(ev.conf.Output(), strings.Join(args, " "))
	return nil
}
