// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"strings"
	"unicode/utf8"

	"github.com/mexlang/mexl/config"
)

// QuoteStyle records which quote character delimited a string literal,
// so unparsing can reproduce the source form.
type QuoteStyle byte

const (
	SingleQuote QuoteStyle = '\''
	DoubleQuote QuoteStyle = '"'
)

// CharString is an immutable text value.
type CharString struct {
	text  string
	quote QuoteStyle
}

// NewCharString builds a string value. The text must be valid UTF-8.
func NewCharString(text string, quote QuoteStyle) *CharString {
	if !utf8.ValidString(text) {
		Errorf("invalid code points in string")
	}
	return &CharString{text: text, quote: quote}
}

// Text returns the code-point sequence.
func (s *CharString) Text() string { return s.text }

// Quote returns the original quote style.
func (s *CharString) Quote() QuoteStyle { return s.quote }

// Len returns the number of code points.
func (s *CharString) Len() int { return utf8.RuneCountInString(s.text) }

// Sprint renders the string in its original quote style, with inner
// quote characters doubled in the source manner.
func (s *CharString) Sprint(conf *config.Config) string {
	q := string(rune(s.quote))
	return q + strings.ReplaceAll(s.text, q, q+q) + q
}
