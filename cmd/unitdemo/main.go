// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
Unitdemo is a test binary whose tests are registered at package
initialization and run by the unitrun command line interface.

Usage:

	unitdemo [flags]
	unitdemo list [flags]

The flags are:

	-f, --filter 'pos1:pos2-neg1:neg2'
	    run only tests whose 'suite.test' identity matches a
	    positive glob pattern and no negative one
	-v, --verbose
	    report passing tests and the log lines of each test
	-w, --workers n
	    run up to n suites in parallel
	--progress
	    show a progress bar and report failures in the summary
	--no-color
	    disable colored output
	--log-level level
	    logrus level of the runner's log written to stderr
	--env-file file
	    read UNITRUN_* settings from file (default ".env")

Each flag may also be given as UNITRUN_* environment variable, e.g.
UNITRUN_WORKERS=4.  Unitdemo exits with 0 if all tests passed, with 1 if
a test failed and with 2 if its tests or its configuration are invalid.
Its suite "foo" fails on purpose:

	--- FAIL: foo.bar1 (0.00s)
	    bar1 continues after its failed check
	    .../cmd/unitdemo/main.go:58: expected 13 <= 8
	        expected: <= 8
	        actual:   13
	--- FAIL: foo.bar2 (0.00s)
	    .../cmd/unitdemo/main.go:64: expected "foo", got "foobar"
	        expected: "foo"
	        actual:   "foobar"
*/
package main

import (
	"os"

	"github.com/slukits/unitrun"
	"github.com/slukits/unitrun/pkg/cli"
)

var _ = unitrun.Test("foo", "bar1", func(t *unitrun.T) {
	t.Check.GE(42, 13)
	t.Check.LE(13, 8)
	t.Log("bar1 continues after its failed check")
})

var _ = unitrun.Test("foo", "bar2", func(t *unitrun.T) {
	t.Require.StrEq("foo", "foo")
	t.Require.StrEq("foo", "foobar")
	t.Log("never logged")
})

func main() { os.Exit(cli.Execute(nil, os.Args[1:])) }
