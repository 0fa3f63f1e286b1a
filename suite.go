// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
)

// Suite makes a struct a suite of tests if it is embedded:
//
//	type MySuite struct {
//	    unitrun.Suite
//	    db *sql.DB
//	}
//
//	// optional SetUp-method
//	func (s *MySuite) SetUp(t *unitrun.T) { s.db = open(t) }
//
//	// optional TearDown-method
//	func (s *MySuite) TearDown(t *unitrun.T) { s.db.Close() }
//
//	// ... the suite-tests as methods of *MySuite ...
//	func (s *MySuite) Queries_the_db(t *unitrun.T) { ... }
//
//	var _ = unitrun.Register(&MySuite{})
//
// The suite struct is the suite's fixture: every test runs on its own
// zero value of MySuite which is passed through SetUp, the test and
// TearDown.  The registered value itself is only used for its type.
type Suite struct{}

func (s *Suite) embedded() *Suite { return s }

// SuiteEmbedder is automatically implemented by a pointer to a struct
// embedding a Suite-instance.
type SuiteEmbedder interface {
	embedded() *Suite
}

const (
	setUpMethod    = "SetUp"
	tearDownMethod = "TearDown"
)

var tType = reflect.TypeOf((*T)(nil))

// isSuiteMethod reports if given method has the signature
// func(*T) of a suite test, SetUp and TearDown.
func isSuiteMethod(m reflect.Method) bool {
	return m.Type.NumIn() == 2 && m.Type.In(1) == tType &&
		m.Type.NumOut() == 0
}

func methodHook(m reflect.Method) func(*T, any) {
	return func(t *T, fx any) {
		m.Func.Call([]reflect.Value{
			reflect.ValueOf(fx), reflect.ValueOf(t)})
	}
}

// Suite registers the tests of given suite embedder, i.e. all its
// exported methods with signature func(*T) which are not SetUp or
// TearDown.  The suite's name is the name of the embedder's type.  Its
// tests are registered in the order they are declared; tests declared
// in several files are ordered by file name first.
func (r *Registry) Suite(s SuiteEmbedder) error {
	file, line := caller(2)
	return r.suite(s, file, line)
}

// Register registers the tests of given suite embedder at the Default
// registry (see Registry.Suite) and returns true iff all registrations
// succeeded.
func Register(s SuiteEmbedder) bool {
	file, line := caller(2)
	return Default.suite(s, file, line) == nil
}

func (r *Registry) suite(s SuiteEmbedder, file string, line int) error {
	ptr := reflect.TypeOf(s)
	if ptr == nil || ptr.Kind() != reflect.Ptr ||
		ptr.Elem().Kind() != reflect.Struct || ptr.Elem().Name() == "" {
		err := &ConfigError{Kind: InvalidTest,
			Location: fmt.Sprintf("%s:%d", file, line),
			Detail:   "suite must be a named struct type"}
		r.mutex.Lock()
		r.errs = multierror.Append(r.errs, err)
		r.mutex.Unlock()
		return err
	}

	typ := ptr.Elem()
	h := &hooks{
		typ:   typ,
		alloc: func() any { return reflect.New(typ).Interface() },
	}
	tests := []reflect.Method{}
	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		if !isSuiteMethod(m) {
			continue
		}
		switch m.Name {
		case setUpMethod:
			h.setUp = methodHook(m)
		case tearDownMethod:
			h.tearDown = methodHook(m)
		default:
			tests = append(tests, m)
		}
	}

	order := declarationOrder(tests, file, typ.Name())
	slices.SortStableFunc(tests, func(a, b reflect.Method) bool {
		da, okA := order[a.Name]
		db, okB := order[b.Name]
		switch {
		case okA && okB:
			return da.before(db)
		case okA != okB:
			return okA
		}
		return false // both by name as provided by reflection
	})

	var errs *multierror.Error
	for _, m := range tests {
		d := &Descriptor{Suite: typ.Name(), Name: m.Name,
			File: file, Line: line, hooks: h, body: methodHook(m)}
		if err := r.Register(d); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// declaration is the position of a suite test's declaration.
type declaration struct {
	file  string
	index int
}

func (d declaration) before(o declaration) bool {
	if d.file != o.file {
		return d.file < o.file
	}
	return d.index < o.index
}

// declarationOrder maps given suite's tests to their declarations.  A
// test is looked up in the file its method is compiled from and in the
// registering file otherwise, e.g. a value-receiver method whose
// pointer-method is generated.  Tests found nowhere are missing.
func declarationOrder(
	tests []reflect.Method, registering, suite string,
) map[string]declaration {
	order := map[string]declaration{}
	for _, m := range tests {
		for _, file := range []string{methodFile(m), registering} {
			if file == "" {
				continue
			}
			if idx, ok := indexer.indices(file, suite)[m.Name]; ok {
				order[m.Name] = declaration{file: file, index: idx}
				break
			}
		}
	}
	return order
}

func methodFile(m reflect.Method) string {
	fn := runtime.FuncForPC(m.Func.Pointer())
	if fn == nil {
		return ""
	}
	file, _ := fn.FileLine(fn.Entry())
	return file
}
