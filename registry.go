// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
)

// Descriptor identifies a registered test by its suite and name and
// holds what is needed to run it.  A Descriptor is immutable once it
// was registered.
type Descriptor struct {
	Suite string
	Name  string

	// File and Line locate the registration of the test.
	File string
	Line int

	body     func(*T, any)
	hooks    *hooks
	suiteIdx int
}

// ID returns the descriptor's identity "suite.name".
func (d *Descriptor) ID() string { return d.Suite + "." + d.Name }

// Location returns "file:line" of the test's registration.
func (d *Descriptor) Location() string {
	return fmt.Sprintf("%s:%d", d.File, d.Line)
}

// HasFixture is true iff the test's suite is bound to a fixture.
func (d *Descriptor) HasFixture() bool { return d.hooks != nil }

// SuiteIndex is the position of the test's suite in its registry's
// suite order.
func (d *Descriptor) SuiteIndex() int { return d.suiteIdx }

// hooks binds a suite to a fixture type: alloc returns a pointer to a
// zero value of the fixture type which is passed to setUp, the test
// body and tearDown.
type hooks struct {
	typ      reflect.Type
	alloc    func() any
	setUp    func(*T, any)
	tearDown func(*T, any)
}

type identity struct{ suite, test string }

type suiteEntry struct {
	name  string
	idx   int
	hooks *hooks
	tests []*Descriptor
}

// Registry is an ordered set of test descriptors.  Registration is
// meant to happen during package initialization, e.g.
//
//	var _ = unitrun.Test("foo", "bar", func(t *unitrun.T) {
//	    t.Check.GE(42, 13)
//	})
//
// Descriptors are kept in order of their suite's first registration
// and within a suite in order of registration.  Configuration errors
// like duplicate registrations are remembered and reported by Err;
// a Runner refuses to run a registry whose Err is not nil.
type Registry struct {
	mutex   sync.Mutex
	suites  []*suiteEntry
	bySuite map[string]*suiteEntry
	ids     map[identity]*Descriptor
	errs    *multierror.Error
	sealed  bool
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bySuite: map[string]*suiteEntry{},
		ids:     map[identity]*Descriptor{},
	}
}

// Default is the process-wide registry used by the package level
// registration functions and Main.
var Default = NewRegistry()

// Register adds given descriptor to the registry.  A descriptor whose
// identity is already registered, whose fixture binding conflicts with
// its suite's binding or which is registered after the registry's run
// has started is not added; the returned error is a *ConfigError which
// is also remembered for Err.
func (r *Registry) Register(d *Descriptor) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.validate(d); err != nil {
		r.errs = multierror.Append(r.errs, err)
		return err
	}
	s, ok := r.bySuite[d.Suite]
	if !ok {
		s = &suiteEntry{name: d.Suite, idx: len(r.suites), hooks: d.hooks}
		r.suites = append(r.suites, s)
		r.bySuite[d.Suite] = s
	}
	d.suiteIdx = s.idx
	s.tests = append(s.tests, d)
	r.ids[identity{d.Suite, d.Name}] = d
	return nil
}

func (r *Registry) validate(d *Descriptor) error {
	cfgErr := func(k ConfigKind, detail string) error {
		return &ConfigError{Kind: k, Suite: d.Suite, Test: d.Name,
			Location: d.Location(), Detail: detail}
	}
	if d.body == nil {
		return cfgErr(InvalidTest, "missing test body")
	}
	if r.sealed {
		return cfgErr(LateRegistration, "run already started")
	}
	if other, ok := r.ids[identity{d.Suite, d.Name}]; ok {
		return cfgErr(DuplicateTest,
			"first registered at "+other.Location())
	}
	s, ok := r.bySuite[d.Suite]
	if !ok {
		return nil
	}
	switch {
	case s.hooks == nil && d.hooks == nil:
		return nil
	case s.hooks == nil || d.hooks == nil:
		return cfgErr(FixtureConflict,
			"suite mixes fixture and plain tests")
	case s.hooks.typ != d.hooks.typ:
		return cfgErr(FixtureConflict, fmt.Sprintf(
			"suite bound to %v and %v", s.hooks.typ, d.hooks.typ))
	}
	return nil
}

// Test registers a test without fixture of given suite with given
// name.  It returns the registered descriptor or nil if the
// registration failed (see Register).
func (r *Registry) Test(suite, name string, body func(*T)) *Descriptor {
	d := &Descriptor{Suite: suite, Name: name}
	d.File, d.Line = caller(2)
	if body != nil {
		d.body = func(t *T, _ any) { body(t) }
	}
	if r.Register(d) != nil {
		return nil
	}
	return d
}

// Test registers at the Default registry a test without fixture and
// returns true iff the registration succeeded.  Its return value
// allows for registration through package variable initialization:
//
//	var _ = unitrun.Test("foo", "bar", func(t *unitrun.T) { ... })
func Test(suite, name string, body func(*T)) bool {
	d := &Descriptor{Suite: suite, Name: name}
	d.File, d.Line = caller(2)
	if body != nil {
		d.body = func(t *T, _ any) { body(t) }
	}
	return Default.Register(d) == nil
}

// All returns the registered descriptors ordered by suite registration
// and within a suite by test registration.
func (r *Registry) All() []*Descriptor {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	dd := make([]*Descriptor, 0, len(r.ids))
	for _, s := range r.suites {
		dd = append(dd, s.tests...)
	}
	return dd
}

// Suites returns the registered suite names in registration order.
func (r *Registry) Suites() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	ss := make([]string, len(r.suites))
	for i, s := range r.suites {
		ss[i] = s.name
	}
	return ss
}

// Tests returns given suite's descriptors in registration order.
func (r *Registry) Tests(suite string) []*Descriptor {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	s, ok := r.bySuite[suite]
	if !ok {
		return nil
	}
	return slices.Clone(s.tests)
}

// Len returns the number of registered tests.
func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.ids)
}

// Err returns all remembered configuration errors or nil.
func (r *Registry) Err() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.errs.ErrorOrNil()
}

// seal ends the registration phase and returns Err.
func (r *Registry) seal() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sealed = true
	return r.errs.ErrorOrNil()
}

// caller returns file and line of the skip-th frame above caller.
func caller(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown", 0
	}
	return file, line
}
