// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fx provides registries of fixture suites for the tests of
// unitrun and its packages.
//
// Each fixture registry is created fresh by its constructor together
// with a Trace whose events are appended by the fixture suite's hooks
// and tests.  After the registry was run the trace tells which
// statements have been executed:
//
//	reg, trace := fx.FooBar()
//	summary, _ := (&unitrun.Runner{Registry: reg}).Run()
//	// trace.Has(fx.Bar1Trailing) is true
//	// trace.Has(fx.Bar2Trailing) is false
package fx

import (
	"fmt"
	"strings"
	"sync"

	"github.com/slukits/unitrun"
)

// Trace records events concurrency save in order of their appearance.
type Trace struct {
	mutex  sync.Mutex
	events []string
}

// Add appends given event.
func (t *Trace) Add(event string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.events = append(t.events, event)
}

// Addf appends given format string leveraging fmt.Sprintf as event.
func (t *Trace) Addf(format string, args ...interface{}) {
	t.Add(fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events.
func (t *Trace) Events() []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]string(nil), t.events...)
}

// Count returns how often given event was recorded.
func (t *Trace) Count(event string) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	n := 0
	for _, e := range t.events {
		if e == event {
			n++
		}
	}
	return n
}

// Has is true iff given event was recorded at least once.
func (t *Trace) Has(event string) bool { return t.Count(event) > 0 }

func (t *Trace) String() string {
	return strings.Join(t.Events(), ",")
}

// Events of the FooBar registry.
const (
	Bar1Trailing = "bar1: trailing statement"
	Bar2Trailing = "bar2: trailing statement"
)

// FooBar returns a registry with the suite "foo" whose test "bar1"
// fails non-fatally once and executes a trailing statement and whose
// test "bar2" fails fatally once before its trailing statement.
func FooBar() (*unitrun.Registry, *Trace) {
	reg, trace := unitrun.NewRegistry(), &Trace{}
	reg.Test("foo", "bar1", func(t *unitrun.T) {
		t.Check.GE(42, 13)
		t.Check.LE(13, 8)
		trace.Add(Bar1Trailing)
	})
	reg.Test("foo", "bar2", func(t *unitrun.T) {
		t.Require.StrEq("foo", "foo")
		t.Require.StrEq("foo", "foobar")
		trace.Add(Bar2Trailing)
	})
	return reg, trace
}

// Events of the NonFatal registry.
const (
	NonFatalStep = "non-fatal: step"
	NonFatalEnd  = "non-fatal: end"
)

// NonFatal returns a registry whose only test fails three non-fatal
// assertions each followed by a step event and ends with an end event.
func NonFatal() (*unitrun.Registry, *Trace) {
	reg, trace := unitrun.NewRegistry(), &Trace{}
	reg.Test("nonfatal", "three_failures", func(t *unitrun.T) {
		t.Check.True(false)
		trace.Add(NonFatalStep)
		t.Check.StrEq("a", "b")
		trace.Add(NonFatalStep)
		t.Check.LT(2, 1)
		trace.Add(NonFatalStep)
		trace.Add(NonFatalEnd)
	})
	return reg, trace
}

// Counter is the fixture type of the Lifecycle registry.
type Counter struct {
	N      int
	Tokens []string
}

// Events of the Lifecycle registry.  Each event is prefixed by the
// name of the test it belongs to, e.g. "passes:setup".
const (
	EvtSetUp     = "setup"
	EvtBody      = "body"
	EvtBodyAfter = "body after abort"
	EvtTearDown  = "teardown"
	EvtNotZero   = "fixture not zero"
)

// Lifecycle returns a registry with the fixture suite "lifecycle" bound
// to Counter.  Its set-up records if it receives a non-zero fixture.
// The suite's tests are:
//
//   - passes: increments the counter
//   - aborts: fails fatally, i.e. its body-after event is never added
//   - setup_aborts: its set-up fails fatally, i.e. neither body nor
//     tear-down run
//   - panics: panics in its body
//   - teardown_aborts: its tear-down aborts before logging the count
func Lifecycle() (*unitrun.Registry, *Trace) {
	reg, trace := unitrun.NewRegistry(), &Trace{}
	suite := unitrun.NewFixture(reg, "lifecycle",
		func(t *unitrun.T, fx *Counter) {
			if fx.N != 0 || fx.Tokens != nil {
				trace.Addf("%s:%s", t.Name(), EvtNotZero)
			}
			trace.Addf("%s:%s", t.Name(), EvtSetUp)
			fx.N = 1
			fx.Tokens = append(fx.Tokens, t.Name())
			t.Require.True(t.Name() != "setup_aborts")
		},
		func(t *unitrun.T, fx *Counter) {
			t.Require.True(t.Name() != "teardown_aborts")
			trace.Addf("%s:%s:%d", t.Name(), EvtTearDown, fx.N)
		},
	)
	suite.Test("passes", func(t *unitrun.T, fx *Counter) {
		trace.Addf("%s:%s", t.Name(), EvtBody)
		fx.N++
		t.Check.EQ(fx.N, 2)
	})
	suite.Test("aborts", func(t *unitrun.T, fx *Counter) {
		trace.Addf("%s:%s", t.Name(), EvtBody)
		fx.N++
		t.Require.EQ(fx.N, 3)
		trace.Addf("%s:%s", t.Name(), EvtBodyAfter)
	})
	suite.Test("setup_aborts", func(t *unitrun.T, fx *Counter) {
		trace.Addf("%s:%s", t.Name(), EvtBody)
	})
	suite.Test("panics", func(t *unitrun.T, fx *Counter) {
		trace.Addf("%s:%s", t.Name(), EvtBody)
		fx.N++
		var m map[string]int
		m["boom"] = fx.N
		trace.Addf("%s:%s", t.Name(), EvtBodyAfter)
	})
	suite.Test("teardown_aborts", func(t *unitrun.T, fx *Counter) {
		trace.Addf("%s:%s", t.Name(), EvtBody)
	})
	return reg, trace
}

// ZeroFixture returns a registry with the fixture suite "zero" whose n
// tests all assert in their set-up that they got a zero fixture and
// then dirty it.
func ZeroFixture(n int) *unitrun.Registry {
	reg := unitrun.NewRegistry()
	suite := unitrun.NewFixture(reg, "zero",
		func(t *unitrun.T, fx *Counter) {
			t.Check.EQ(fx.N, 0)
			t.Check.Nil(fx.Tokens)
			fx.N, fx.Tokens = 42, []string{"dirty"}
		}, nil)
	for i := 0; i < n; i++ {
		suite.Test(fmt.Sprintf("test_%d", i),
			func(t *unitrun.T, fx *Counter) {
				fx.N++
				fx.Tokens = append(fx.Tokens, t.Name())
			})
	}
	return reg
}
