// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unitrun

import (
	"testing"
)

// GoTest runs the tests of given registry as sub-tests "Suite/Test" of
// given testing.T instance, e.g.:
//
//	var reg = unitrun.NewRegistry()
//
//	var _ = reg.Test("foo", "bar", func(t *unitrun.T) { ... })
//
//	func TestFoo(t *testing.T) { unitrun.GoTest(t, reg) }
//
// A nil registry defaults to the Default registry.  Every failure
// record of a test is reported by an Error-call of its sub-test.
// GoTest doesn't claim the process's entry point (see Main).
func GoTest(t *testing.T, r *Registry) *RunSummary {
	t.Helper()
	if r == nil {
		r = Default
	}
	if err := r.seal(); err != nil {
		t.Fatal(err)
	}
	agg := &Aggregator{}
	for _, d := range r.All() {
		var o *Outcome
		t.Run(d.Suite+"/"+d.Name, func(t *testing.T) {
			o = (&Runner{Registry: r}).runTest(d, nil)
			for _, l := range o.Logs {
				t.Log(l)
			}
			for _, f := range o.Failures {
				if f.Stack != "" {
					t.Errorf("%s: %s\n%s", f.Location(), f.Message, f.Stack)
					continue
				}
				t.Errorf("%s: %s", f.Location(), f.Message)
			}
		})
		if o != nil {
			agg.Record(o)
		}
	}
	return agg.Summary()
}
