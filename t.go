// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// T instances are passed to set-up hooks, tests and tear-down hooks
// providing means for logging, assertion, failing and cancellation of
// a test:
//
//	var _ = unitrun.Test("foo", "bar", func(t *unitrun.T) {
//	    t.Check.GE(42, 13)        // records a failure and continues
//	    t.Require.StrEq("a", "a") // records a failure and aborts
//	})
//
// A T instance must not be used outside the test it was passed to.
type T struct {
	d        *Descriptor
	failures []FailureRecord
	passed   int
	logs     []string
	logger   func(...interface{})
	fs       afero.Fs

	// Check provides the non-fatal assertions: a failing Check
	// assertion is recorded and the test continues.
	Check Assert

	// Require provides the fatal assertions: a failing Require
	// assertion is recorded and aborts the currently running set-up,
	// test or tear-down.  A test's tear-down still runs if its set-up
	// succeeded.
	Require Assert
}

func newT(d *Descriptor) *T {
	t := &T{d: d}
	t.Check = newAssert(t, false)
	t.Require = newAssert(t, true)
	return t
}

// abort is the value a fatal failure panics with.  Only the fixture
// controller recovers it.
type abort struct{}

// Name returns the test's name.
func (t *T) Name() string { return t.d.Name }

// SuiteName returns the name of the test's suite.
func (t *T) SuiteName() string { return t.d.Suite }

// Failed reports if a failure was recorded for the test so far.
func (t *T) Failed() bool { return len(t.failures) > 0 }

// Log records given arguments as a log line of the test's outcome.  The
// line is also passed on to the runner's logger at debug level.
func (t *T) Log(args ...interface{}) {
	line := fmt.Sprint(args...)
	t.logs = append(t.logs, line)
	if t.logger != nil {
		t.logger(line)
	}
}

// Logf records given format string leveraging Sprintf as a log line of
// the test.
func (t *T) Logf(format string, args ...interface{}) {
	t.Log(fmt.Sprintf(format, args...))
}

// Error records a non-fatal failure with given arguments as message.
func (t *T) Error(args ...interface{}) {
	t.fail(false, fmt.Sprint(args...), "", "")
}

// Errorf records a non-fatal failure with given format string
// leveraging fmt.Sprintf as message.
func (t *T) Errorf(format string, args ...interface{}) {
	t.fail(false, fmt.Sprintf(format, args...), "", "")
}

// FailNow records a fatal failure and aborts the running set-up, test
// or tear-down.
func (t *T) FailNow() { t.fail(true, "test aborted", "", "") }

// Fatal records a fatal failure with given arguments as message and
// aborts (see FailNow).
func (t *T) Fatal(args ...interface{}) {
	t.fail(true, fmt.Sprint(args...), "", "")
}

// Fatalf records a fatal failure with given format string leveraging
// fmt.Sprintf as message and aborts (see FailNow).
func (t *T) Fatalf(format string, args ...interface{}) {
	t.fail(true, fmt.Sprintf(format, args...), "", "")
}

// FatalIfNot aborts (see FailNow) iff given assertion is false.
func (t *T) FatalIfNot(assertion bool) {
	if assertion {
		return
	}
	t.fail(true, "test aborted", "", "")
}

// FatalOn records a fatal failure with given error's message and
// aborts (see FailNow) iff given error is not nil.
func (t *T) FatalOn(err error) {
	if err == nil {
		return
	}
	t.fail(true, err.Error(), "", "")
}

// FS returns an in-memory file system which lives as long as the
// test, i.e. set-up, test and tear-down share it.
func (t *T) FS() afero.Fs {
	if t.fs == nil {
		t.fs = afero.NewMemMapFs()
	}
	return t.fs
}

// fail records a failure at the assertion's call site and aborts if
// fatal.
func (t *T) fail(fatal bool, msg, expected, actual string) {
	file, line := callSite()
	if file == "" {
		file, line = t.d.File, t.d.Line
	}
	t.record(FailureRecord{
		File:     file,
		Line:     line,
		Message:  msg,
		Expected: expected,
		Actual:   actual,
		Fatal:    fatal,
	})
	if fatal {
		panic(abort{})
	}
}

func (t *T) record(f FailureRecord) {
	f.Suite, f.Test = t.d.Suite, t.d.Name
	t.failures = append(t.failures, f)
}

func (t *T) pass() { t.passed++ }

var engineDir = func() string {
	_, f, _, ok := runtime.Caller(0)
	if !ok {
		panic("unitrun: can't determine source directory")
	}
	return filepath.Dir(f)
}()

// callSite returns the innermost stack location which is neither in
// one of the engine's own source files nor in the go runtime.
func callSite() (string, int) {
	pc := make([]uintptr, 32)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && !isEngineFile(frame.File) &&
			!strings.HasPrefix(frame.Function, "runtime.") {
			return frame.File, frame.Line
		}
		if !more {
			return "", 0
		}
	}
}

// panicStack returns the frames of the recovered panic from the
// panicking frame up to the controller's invoke.  It must be called by
// the deferred function recovering the panic.
func panicStack() string {
	pc := make([]uintptr, 64)
	n := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:n])
	stack, panicking := &strings.Builder{}, false
	for {
		frame, more := frames.Next()
		switch {
		case strings.HasSuffix(frame.Function, ".(*controller).invoke"):
			return stack.String()
		case panicking:
			fmt.Fprintf(stack, "%s\n\t%s:%d\n",
				frame.Function, frame.File, frame.Line)
		case frame.Function == "runtime.gopanic":
			panicking = true
		}
		if !more {
			return stack.String()
		}
	}
}

func isEngineFile(f string) bool {
	if strings.HasSuffix(f, "_test.go") {
		return false
	}
	return filepath.Dir(f) == engineDir
}
