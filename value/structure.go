// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"sort"
	"strings"

	"github.com/mexlang/mexl/config"
)

// Structure is a mapping from field name to value. Field names are
// unique; insertion order is not observable (unparsing sorts).
type Structure struct {
	fields map[string]Value
}

// NewStructure returns an empty structure.
func NewStructure() *Structure {
	return &Structure{fields: make(map[string]Value)}
}

// Copy materializes an independent structure; nested structures and
// arrays are copied too.
func (s *Structure) Copy() *Structure {
	t := NewStructure()
	for name, v := range s.fields {
		t.fields[name] = CopyValue(v)
	}
	return t
}

// FieldNames returns the field names in sorted order.
func (s *Structure) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetField walks path and returns the leaf value. Any missing step is
// an error.
func (s *Structure) GetField(path []string) Value {
	v := Value(s)
	for _, name := range path {
		st, ok := v.(*Structure)
		if !ok {
			Errorf("field access on non-structure value")
		}
		v, ok = st.fields[name]
		if !ok {
			Errorf("undefined field %q", name)
		}
	}
	return v
}

// SetNewField walks path, creating empty structures at each missing
// intermediate, and sets the leaf. An intermediate that exists but is
// not a structure is an error.
func (s *Structure) SetNewField(path []string, v Value) {
	st := s
	for _, name := range path[:len(path)-1] {
		next, ok := st.fields[name]
		if !ok {
			ns := NewStructure()
			st.fields[name] = ns
			st = ns
			continue
		}
		nst, ok := next.(*Structure)
		if !ok {
			Errorf("field %q is not a structure", name)
		}
		st = nst
	}
	st.fields[path[len(path)-1]] = v
}

// Sprint renders the structure as struct(field = value; …).
func (s *Structure) Sprint(conf *config.Config) string {
	var b strings.Builder
	b.WriteString("struct(")
	for i, name := range s.FieldNames() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(s.fields[name].Sprint(conf))
	}
	b.WriteString(")")
	return b.String()
}

// CopyValue materializes an independent copy of v. Scalars and strings
// are immutable and returned as is; arrays and structures copy deeply.
func CopyValue(v Value) Value {
	switch v := v.(type) {
	case *MultiArray:
		return v.Copy()
	case *Structure:
		return v.Copy()
	}
	return v
}
