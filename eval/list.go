// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"strings"

	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/value"
)

// List is the result of evaluating a statement list: the per-statement
// values in order, with the display-suppression flags of the source.
// A nil value marks a statement with no result (a command, say).
type List struct {
	Values []value.Value
	Omit   []bool
}

// Last returns the final non-nil value, or nil.
func (l *List) Last() value.Value {
	for i := len(l.Values) - 1; i >= 0; i-- {
		if l.Values[i] != nil {
			return l.Values[i]
		}
	}
	return nil
}

// Sprint renders the displayed (non-suppressed) results, one per line.
func (l *List) Sprint(conf *config.Config) string {
	var b strings.Builder
	for i, v := range l.Values {
		if v == nil || l.Omit[i] {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(v.Sprint(conf))
	}
	return b.String()
}
