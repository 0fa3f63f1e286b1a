// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"fmt"
	"reflect"
)

// Fixture binds a suite to the fixture type F.  Each test of the suite
// gets its own zero value of F which is handed to the set-up hook, the
// test and the tear-down hook:
//
//	type dbFX struct{ conn *sql.DB }
//
//	var db = unitrun.FixtureSuite("db",
//	    func(t *unitrun.T, fx *dbFX) { fx.conn = open(t) },
//	    func(t *unitrun.T, fx *dbFX) { fx.conn.Close() },
//	)
//
//	var _ = db.Test("queries", func(t *unitrun.T, fx *dbFX) { ... })
//
// Either hook may be nil.
type Fixture[F any] struct {
	reg   *Registry
	suite string
	hooks *hooks
}

// NewFixture binds given suite of given registry to the fixture type F
// with given set-up and tear-down hooks.
func NewFixture[F any](
	r *Registry, suite string, setUp, tearDown func(*T, *F),
) *Fixture[F] {
	h := &hooks{
		typ:   reflect.TypeOf((*F)(nil)).Elem(),
		alloc: func() any { return new(F) },
	}
	if setUp != nil {
		h.setUp = func(t *T, fx any) { setUp(t, fx.(*F)) }
	}
	if tearDown != nil {
		h.tearDown = func(t *T, fx any) { tearDown(t, fx.(*F)) }
	}
	return &Fixture[F]{reg: r, suite: suite, hooks: h}
}

// FixtureSuite binds given suite of the Default registry to the
// fixture type F (see NewFixture).
func FixtureSuite[F any](
	suite string, setUp, tearDown func(*T, *F),
) *Fixture[F] {
	return NewFixture(Default, suite, setUp, tearDown)
}

// Suite returns the name of the suite bound to the fixture.
func (fx *Fixture[F]) Suite() string { return fx.suite }

// Test registers given test body under given name in fx's suite and
// returns true iff the registration succeeded.
func (fx *Fixture[F]) Test(name string, body func(*T, *F)) bool {
	d := &Descriptor{Suite: fx.suite, Name: name, hooks: fx.hooks}
	d.File, d.Line = caller(2)
	if body != nil {
		d.body = func(t *T, v any) { body(t, v.(*F)) }
	}
	return fx.reg.Register(d) == nil
}

// Phase is the state of a test's fixture life cycle.
type Phase uint8

const (
	Uninitialized Phase = iota
	SetupRunning
	Ready
	TestRunning
	TeardownRunning
	Done
	SetupFailed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case SetupRunning:
		return "setup running"
	case Ready:
		return "ready"
	case TestRunning:
		return "test running"
	case TeardownRunning:
		return "teardown running"
	case Done:
		return "done"
	case SetupFailed:
		return "setup failed"
	}
	return fmt.Sprintf("phase(%d)", p)
}

// controller drives one test through its fixture life cycle.  The
// fixture value exists only between allocation and the end of the
// tear-down respectively a failed set-up.
type controller struct {
	d     *Descriptor
	t     *T
	phase Phase
	fx    any
}

func (c *controller) run() Phase {
	h := c.d.hooks
	if h == nil {
		c.phase = TestRunning
		c.invoke(func() { c.d.body(c.t, nil) })
		c.phase = Done
		return c.phase
	}

	c.fx = h.alloc()
	c.phase = SetupRunning
	if h.setUp != nil && c.invoke(func() { h.setUp(c.t, c.fx) }) {
		c.fx = nil
		c.phase = SetupFailed
		return c.phase
	}

	c.phase = Ready
	c.test()
	return c.phase
}

// test runs the test's body followed by its tear-down which also runs
// if the body exits its go routine, e.g. by runtime.Goexit.
func (c *controller) test() {
	defer c.tearDown()
	c.phase = TestRunning
	c.invoke(func() { c.d.body(c.t, c.fx) })
}

func (c *controller) tearDown() {
	c.phase = TeardownRunning
	if h := c.d.hooks; h.tearDown != nil {
		c.invoke(func() { h.tearDown(c.t, c.fx) })
	}
	c.fx = nil
	c.phase = Done
}

// invoke calls given function and reports if it was aborted.  An abort
// of a fatal assertion is recovered as is; any other panic is recorded
// as fatal failure at the panicking line, or at the test's registration
// if that line is unknown, before it is recovered.
func (c *controller) invoke(f func()) (aborted bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		aborted = true
		if _, ok := r.(abort); ok {
			return
		}
		file, line := callSite()
		if file == "" {
			file, line = c.d.File, c.d.Line
		}
		c.t.record(FailureRecord{
			File:    file,
			Line:    line,
			Message: fmt.Sprintf("panic in %s: %v", c.phase, r),
			Stack:   panicStack(),
			Fatal:   true,
		})
	}()
	f()
	return false
}
