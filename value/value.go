// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements the value universe of the interpreter:
// arbitrary-precision complex scalars, character strings, N-dimensional
// arrays and named-field structures, together with the scalar numeric
// kernel (arithmetic, comparison, elementary and special functions).
package value

import (
	"fmt"

	"github.com/mexlang/mexl/config"
)

// Value is a runtime value: Scalar, *CharString, *MultiArray or *Structure.
type Value interface {
	// Sprint returns the canonical textual form of the value.
	Sprint(conf *config.Config) string
}

// Class tags the element kind of a scalar or array.
type Class int

const (
	ClassDecimal Class = iota
	ClassLogical
	ClassChar
	ClassCell
)

func (c Class) String() string {
	switch c {
	case ClassDecimal:
		return "decimal"
	case ClassLogical:
		return "logical"
	case ClassChar:
		return "char"
	case ClassCell:
		return "cell"
	}
	return "unknown"
}

// Error is the type of all errors raised by evaluation.
type Error string

func (err Error) Error() string {
	return string(err)
}

// Errorf panics with a formatted evaluation error. The panic is
// recovered at the evaluator's public entry points.
func Errorf(format string, args ...interface{}) {
	panic(Error(fmt.Sprintf(format, args...)))
}

// ClassOf returns the class tag of a value. Strings are char class;
// structures have no class and report decimal.
func ClassOf(v Value) Class {
	switch v := v.(type) {
	case Scalar:
		if v.logical {
			return ClassLogical
		}
		return ClassDecimal
	case *CharString:
		return ClassChar
	case *MultiArray:
		return v.class
	}
	return ClassDecimal
}
