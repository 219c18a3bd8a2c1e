// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mexlang/mexl/config"
)

func capture() (*config.Config, *bytes.Buffer, *bytes.Buffer) {
	conf := new(config.Config)
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	conf.SetOutput(out)
	conf.SetErrOutput(errOut)
	return conf, out, errOut
}

func TestRunPrints(t *testing.T) {
	conf, out, errOut := capture()
	ev := New(conf)
	if !Run(ev, "a = 2 + 3*4; a") {
		t.Fatalf("run failed: %s", errOut.String())
	}
	if got := out.String(); got != "14\n" {
		t.Errorf("output = %q, want %q", got, "14\n")
	}
}

func TestRunSuppression(t *testing.T) {
	conf, out, errOut := capture()
	ev := New(conf)
	if !Run(ev, "x = 5; y = 6, y + 1") {
		t.Fatalf("run failed: %s", errOut.String())
	}
	// x = 5; is suppressed, the remaining two display.
	if got := out.String(); got != "6\n7\n" {
		t.Errorf("output = %q, want %q", got, "6\n7\n")
	}
}

func TestRunReportsErrors(t *testing.T) {
	conf, out, errOut := capture()
	ev := New(conf)
	if Run(ev, "nosuchname") {
		t.Fatal("run should fail")
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "undefined name") {
		t.Errorf("stderr = %q", errOut.String())
	}

	errOut.Reset()
	if Run(ev, "1 +") {
		t.Fatal("syntax error should fail")
	}
	if !strings.Contains(errOut.String(), "syntax error") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRunSessionState(t *testing.T) {
	conf, out, _ := capture()
	ev := New(conf)
	Run(ev, "x = 5;")
	Run(ev, "x + 1")
	if got := out.String(); got != "6\n" {
		t.Errorf("state should persist across runs: %q", got)
	}
}
